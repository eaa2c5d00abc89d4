package models

// ArtifactKind identifies one stage output stored for a product.
type ArtifactKind string

const (
	ArtifactRaw      ArtifactKind = "raw"
	ArtifactQC       ArtifactKind = "qc"
	ArtifactMetadata ArtifactKind = "metadata"
)

// Valid reports whether k is a known artifact kind.
func (k ArtifactKind) Valid() bool {
	switch k {
	case ArtifactRaw, ArtifactQC, ArtifactMetadata:
		return true
	}
	return false
}

// Verdict is the QC decision on a content artifact.
type Verdict string

const (
	VerdictPass     Verdict = "PASS"
	VerdictNeedsFix Verdict = "NEEDS_FIX"
	VerdictFail     Verdict = "FAIL"
)

// QCIssue is a single finding of the quality evaluation.
type QCIssue struct {
	Category    string `json:"category" validate:"required,oneof=structure alignment clarity difficulty inclusivity accuracy"`
	Severity    string `json:"severity" validate:"required,oneof=low medium high critical"`
	Description string `json:"description" validate:"required"`
	Suggestion  string `json:"suggestion" validate:"required"`
}

// QCResult is the stored quality evaluation of a product.
type QCResult struct {
	Verdict          Verdict   `json:"verdict" validate:"required,oneof=PASS NEEDS_FIX FAIL"`
	Score            int       `json:"score" validate:"min=0,max=100"`
	StructureScore   int       `json:"structure_score" validate:"min=0,max=100"`
	AlignmentScore   int       `json:"alignment_score" validate:"min=0,max=100"`
	ClarityScore     int       `json:"clarity_score" validate:"min=0,max=100"`
	DifficultyScore  int       `json:"difficulty_score" validate:"min=0,max=100"`
	InclusivityScore int       `json:"inclusivity_score" validate:"min=0,max=100"`
	AccuracyScore    int       `json:"accuracy_score" validate:"min=0,max=100"`
	Issues           []QCIssue `json:"issues" validate:"max=10,dive"`
	Strengths        []string  `json:"strengths" validate:"min=1,max=5,dive,required"`
	Recommendations  []string  `json:"recommendations" validate:"max=5"`
}

// SubScoreMean averages the six category scores.
func (r QCResult) SubScoreMean() float64 {
	sum := r.StructureScore + r.AlignmentScore + r.ClarityScore +
		r.DifficultyScore + r.InclusivityScore + r.AccuracyScore
	return float64(sum) / 6
}

// ProductMetadata is the market-facing description of a product.
type ProductMetadata struct {
	Title             string   `json:"title" validate:"min=10,max=100"`
	Description       string   `json:"description" validate:"min=50,max=300"`
	Tags              []string `json:"tags" validate:"min=3,max=10,dive,min=2,max=30,tagchars"`
	SEOKeywords       []string `json:"seo_keywords" validate:"min=5,max=15,dive,min=3,max=50"`
	SuggestedPrice    float64  `json:"suggested_price" validate:"gte=0.99,lte=99.99"`
	DifficultyLevel   string   `json:"difficulty_level" validate:"oneof=beginner intermediate advanced"`
	EstimatedDuration int      `json:"estimated_duration" validate:"min=15,max=180"`
	LearningOutcomes  []string `json:"learning_outcomes" validate:"min=2,max=5,dive,min=15,max=150"`
	SubjectArea       string   `json:"subject_area" validate:"min=3,max=50"`
	TopicFocus        string   `json:"topic_focus" validate:"min=5,max=100"`
	SkillLevel        string   `json:"skill_level" validate:"oneof=foundational developing proficient advanced"`
	ClassroomReady    bool     `json:"classroom_ready"`
	HomeworkSuitable  bool     `json:"homework_suitable"`
	AssessmentType    *string  `json:"assessment_type" validate:"omitempty,oneof=formative summative diagnostic"`
}
