package agent

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/noah-isme/edu-content-forge/internal/models"
)

const (
	qcParseFailure       = "QC evaluation failed due to parsing error"
	qcFallbackSuggestion = "Regenerate content with proper structure"
)

// FallbackQC is the deterministic evaluation stored when the model's evaluation is unusable.
func FallbackQC(reason string) models.QCResult {
	if strings.TrimSpace(reason) == "" {
		reason = qcParseFailure
	}
	return models.QCResult{
		Verdict: models.VerdictFail,
		Issues: []models.QCIssue{{
			Category:    "structure",
			Severity:    "critical",
			Description: reason,
			Suggestion:  qcFallbackSuggestion,
		}},
		Strengths:       []string{"None identified"},
		Recommendations: []string{"Regenerate content"},
	}
}

// FallbackMetadata derives valid metadata from the product kind, grade and standard code alone.
func FallbackMetadata(productType models.ProductType, gradeLevel int, standardCode string) models.ProductMetadata {
	kind := kindLower(productType)
	standard := strings.TrimSpace(standardCode)
	if standard == "" {
		standard = "curriculum standards"
	}

	topic := truncateRunes(standard, 100)
	if utf8.RuneCountInString(topic) < 5 {
		topic = "Standard " + topic
	}

	formative := "formative"
	return models.ProductMetadata{
		Title: fmt.Sprintf("Grade %d %s - %s", gradeLevel, kindTitle(productType), truncateRunes(standard, 50)),
		Description: fmt.Sprintf("Educational %s aligned with %s for grade %d students. Includes comprehensive activities and answer key.",
			kind, truncateRunes(standard, 100), gradeLevel),
		Tags:              uniqueStrings(tagSafe(kind), fmt.Sprintf("grade-%d", gradeLevel), "education", "curriculum", "worksheet"),
		SEOKeywords:       uniqueStrings(fmt.Sprintf("grade %d", gradeLevel), kind, "education", "curriculum", "learning"),
		SuggestedPrice:    2.99,
		DifficultyLevel:   "intermediate",
		EstimatedDuration: 45,
		LearningOutcomes: []string{
			fmt.Sprintf("Students will understand key concepts from %s", truncateRunes(standard, 100)),
			fmt.Sprintf("Students will apply grade %d appropriate skills", gradeLevel),
		},
		SubjectArea:      "General Education",
		TopicFocus:       topic,
		SkillLevel:       "developing",
		ClassroomReady:   true,
		HomeworkSuitable: true,
		AssessmentType:   &formative,
	}
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func uniqueStrings(values ...string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func tagSafe(s string) string {
	return strings.Map(func(r rune) rune {
		if r < utf8.RuneSelf && tagPattern.MatchString(string(r)) {
			return r
		}
		return '-'
	}, s)
}
