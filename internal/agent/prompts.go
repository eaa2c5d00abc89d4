package agent

import (
	"fmt"
	"strings"

	"github.com/noah-isme/edu-content-forge/internal/models"
)

const baseSystemPrompt = `You are an expert educational content creator specializing in curriculum-aligned materials.

CRITICAL REQUIREMENTS:
1. Output MUST be valid JSON only - no explanations, no markdown, no additional text
2. Follow the exact schema provided for the product type
3. Align content with the specified educational standard
4. Match the grade level and curriculum requirements
5. Ensure content is pedagogically sound and age-appropriate

QUALITY STANDARDS:
- Content must be accurate and factually correct
- Language appropriate for the target grade level
- Clear, engaging, and educationally valuable
- Culturally sensitive and inclusive
- Practical for classroom use

OUTPUT FORMAT: Return only valid JSON matching the required schema.`

const worksheetSystemPrompt = `You are creating educational worksheets that are practical, engaging, and curriculum-aligned.

WORKSHEET REQUIREMENTS:
- Include clear title and instructions
- Provide 8-12 varied questions/activities
- Include answer key with explanations
- Ensure progressive difficulty
- Add visual elements descriptions where helpful
- Include extension activities for advanced learners

OUTPUT: Valid JSON only, following the worksheet schema exactly.`

const worksheetStructurePrompt = `Create a comprehensive worksheet with:

STRUCTURE REQUIRED:
- Title (engaging and descriptive)
- Learning objectives (2-3 clear goals)
- Instructions for students
- Questions/activities (8-12 items with variety)
- Answer key with explanations
- Extension activities (2-3 optional challenges)
- Estimated completion time

QUESTION TYPES TO INCLUDE:
- Multiple choice (2-3 questions)
- Short answer (3-4 questions)
- Problem solving (2-3 questions)
- Creative/application tasks (1-2 questions)

Use these JSON keys: title, learning_objectives, instructions, questions, answer_key,
extension_activities, estimated_time (minutes).

Ensure questions build from basic recall to higher-order thinking skills.`

const qcSystemPrompt = `You are an expert educational content quality evaluator.

EVALUATION CRITERIA:
1. STRUCTURE: Organization, completeness, format consistency
2. ALIGNMENT: Match with educational standard and curriculum
3. CLARITY: Clear instructions, understandable language
4. DIFFICULTY: Appropriate for grade level, progressive challenge
5. INCLUSIVITY: Culturally sensitive, accessible to diverse learners
6. ACCURACY: Factually correct, pedagogically sound

SCORING SCALE:
- 90-100: Excellent, ready for immediate use
- 75-89: Good, minor improvements needed
- 60-74: Adequate, needs fixes before use
- 40-59: Poor, significant issues present
- 0-39: Unacceptable, major revision required

VERDICT GUIDELINES:
- PASS: Score >= 75, minor or no issues
- NEEDS_FIX: Score 50-74, fixable issues identified
- FAIL: Score < 50, major problems requiring regeneration

OUTPUT: Valid JSON only, following QC schema exactly.`

const qcSchemaPrompt = `Respond with a JSON object with exactly these keys:
verdict (PASS, NEEDS_FIX or FAIL), score, structure_score, alignment_score, clarity_score,
difficulty_score, inclusivity_score, accuracy_score (integers 0-100),
issues (at most 10 objects with category, severity, description, suggestion;
category one of structure, alignment, clarity, difficulty, inclusivity, accuracy;
severity one of low, medium, high, critical),
strengths (1-5 strings), recommendations (at most 5 strings).`

const metadataSystemPrompt = `You are an expert educational content metadata generator.

RESPONSIBILITIES:
- Generate compelling titles and descriptions
- Create relevant tags and SEO keywords
- Suggest appropriate pricing
- Classify difficulty and skill levels
- Identify learning outcomes and usage contexts

METADATA REQUIREMENTS:
- Title: Engaging, descriptive, SEO-friendly
- Description: Clear value proposition, key features
- Tags: Relevant, searchable, curriculum-aligned
- Keywords: High-traffic educational search terms
- Price: Market-appropriate for content quality and scope

PRICING GUIDELINES:
- Simple worksheets: $0.99-$2.99
- Complex activities: $3.99-$7.99
- Assessment packages: $8.99-$15.99
- Comprehensive units: $16.99-$29.99

OUTPUT: Valid JSON only, following metadata schema exactly.`

func generationSystemPrompt(req Request) string {
	if req.ProductType == models.ProductTypeWorksheet {
		return worksheetSystemPrompt
	}
	return baseSystemPrompt
}

func generationUserPrompt(req Request) string {
	kind := kindLower(req.ProductType)
	prompt := fmt.Sprintf(`Create a %s for:

EDUCATIONAL CONTEXT:
- Standard: %s
- Grade Level: %d
- Curriculum: %s

REQUIREMENTS:
- Align content directly with the specified standard
- Ensure appropriate difficulty for grade %d
- Include clear learning objectives
- Provide engaging, practical content
- Follow %s guidelines

Generate the complete %s as valid JSON following the required schema.`,
		kind, req.Standard.PromptLabel(), req.GradeLevel, req.Curriculum, req.GradeLevel, req.Curriculum, kind)

	if req.ProductType == models.ProductTypeWorksheet {
		prompt += "\n\n" + worksheetStructurePrompt
	}
	return prompt
}

func qcUserPrompt(req Request, content string) string {
	return fmt.Sprintf(`Evaluate this %s content for quality and alignment:

CONTENT TO EVALUATE:
%s

EVALUATION CRITERIA:
- Standard alignment with: %s
- Grade %d appropriateness
- Structure and completeness
- Clarity and engagement
- Pedagogical effectiveness
- Inclusivity and accessibility

%s`, kindLower(req.ProductType), content, req.Standard.PromptLabel(), req.GradeLevel, qcSchemaPrompt)
}

func metadataUserPrompt(req Request, summary string) string {
	return fmt.Sprintf(`Generate comprehensive metadata for this %s:

CONTENT SUMMARY:
%s

EDUCATIONAL CONTEXT:
- Standard: %s
- Grade Level: %d
- Curriculum: %s

GENERATE a JSON object with these keys:
- title: compelling title (10-100 chars)
- description: marketing description (50-300 chars)
- tags: 3-10 tags using only letters, digits, "-" or "_" (2-30 chars each)
- seo_keywords: 5-15 keywords (3-50 chars each)
- suggested_price: 0.99-99.99
- difficulty_level: beginner, intermediate or advanced
- estimated_duration: minutes, 15-180
- learning_outcomes: 2-5 outcomes (15-150 chars each)
- subject_area (3-50 chars) and topic_focus (5-100 chars)
- skill_level: foundational, developing, proficient or advanced
- classroom_ready, homework_suitable: booleans
- assessment_type: formative, summative, diagnostic or null

Ensure metadata is market-ready and educationally accurate.`,
		kindLower(req.ProductType), summary, req.Standard.PromptLabel(), req.GradeLevel, req.Curriculum)
}

// contentSummary condenses a generated artifact for the metadata prompt.
func contentSummary(content Content, productType string) string {
	parts := make([]string, 0, 4)

	if title, ok := content["title"]; ok {
		parts = append(parts, fmt.Sprintf("Title: %v", title))
	}
	if raw, ok := content["learning_objectives"].([]interface{}); ok {
		objectives := make([]string, 0, 2)
		for i, obj := range raw {
			if i == 2 {
				break
			}
			objectives = append(objectives, fmt.Sprint(obj))
		}
		parts = append(parts, "Objectives: "+strings.Join(objectives, ", "))
	}
	if questions, ok := content["questions"].([]interface{}); ok {
		parts = append(parts, fmt.Sprintf("Questions: %d items", len(questions)))
	}
	if minutes, ok := content["estimated_time"]; ok {
		parts = append(parts, fmt.Sprintf("Duration: %v minutes", minutes))
	}

	if len(parts) == 0 {
		return productType + " content"
	}
	return strings.Join(parts, " | ")
}
