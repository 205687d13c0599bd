// Package grader implements the LLM-backed transcript evaluation client.
// It owns prompt construction, JSON extraction from model output, and
// structural validation, exposing only domain values or classified
// errors to the tournament engine.
package grader

import (
	"strings"
	"text/template"
)

// systemPrompt anchors the model in the grading persona for every call.
const systemPrompt = "You are an expert sales trainer. Respond only with valid JSON as requested."

// rubric is the fixed five-criterion scoring rubric on the 1-4 scale.
const rubric = `
# Sales Pitch Evaluation Rubric

## Scoring Scale
- 4 (Excellent): Exceeds expectations, demonstrates mastery
- 3 (Very Good): Meets expectations with strong execution
- 2 (Good): Meets basic expectations, room for improvement
- 1 (Needs Improvement): Below expectations, significant gaps

## Evaluation Criteria

### 1. ICP Alignment (Ideal Customer Profile)
**4 (Excellent)**: Demonstrates deep research with 75%+ ICP criteria met, uses specific company examples, shows clear understanding of prospect's business model and challenges.

**3 (Very Good)**: Shows good research with 50-74% ICP criteria met, references relevant industry trends or company information.

**2 (Good)**: Basic research evident with 25-49% ICP criteria met, general industry knowledge without specific company details.

**1 (Needs Improvement)**: Little to no research evident, 0-24% ICP criteria met, generic approach without customization.

### 2. PBO Messaging Alignment (Positive Business Outcomes)
**4 (Excellent)**: Messaging precisely tied to specific lead pain points, quantifies business impact, connects technical features to business outcomes.

**3 (Very Good)**: Good messaging alignment with clear business benefits, some quantification of impact.

**2 (Good)**: Accurate messaging but limited impact for target personas, generic business benefits.

**1 (Needs Improvement)**: Poor alignment with PBOs, focuses on features without business context.

### 3. Continuous Profiling Explanation
**4 (Excellent)**: Clear, detailed explanation with concrete examples, explains benefits and differentiators, uses appropriate technical depth for audience.

**3 (Very Good)**: Clear explanation with good understanding, lacks some depth or examples.

**2 (Good)**: High-level explanation of profiling concepts without sufficient specificity or examples.

**1 (Needs Improvement)**: Vague or confusing explanation, demonstrates poor understanding of the technology.

### 4. Observability Context
**4 (Excellent)**: Explains profiling in context of 2+ observability signals (metrics, logs, traces), shows how they complement each other.

**3 (Very Good)**: Explains profiling in context of 1 observability signal, good understanding of ecosystem.

**2 (Good)**: Mentions observability concepts but doesn't clearly connect profiling to the broader ecosystem.

**1 (Needs Improvement)**: No connection to observability signals, treats profiling as isolated tool.

### 5. Talk Track Alignment
**4 (Excellent)**: High PBO accuracy effectively tied to account research, natural flow, handles objections proactively.

**3 (Very Good)**: Good PBO accuracy with adequate research connection, mostly natural delivery.

**2 (Good)**: Accurate messaging but limited research integration, some awkward transitions.

**1 (Needs Improvement)**: Poor accuracy, little research integration, choppy or confusing delivery.
`

var individualTemplate = template.Must(template.New("individual").Parse(`
You are an expert sales trainer evaluating a sales pitch for Pyroscope (continuous profiling tool).

## Context
Pyroscope helps developers optimize application performance by providing continuous, code-level profiling data. Key value propositions:
- Faster incident resolution through code-level visibility
- Reduced infrastructure costs via optimization insights
- Improved application reliability and performance
- Seamless integration with existing observability stack

## Your Task
Evaluate this sales pitch transcript against the provided rubric. Be thorough, fair, and constructive in your feedback.

## Rubric
{{.Rubric}}

## Transcript to Evaluate
{{.Transcript}}

## Instructions
1. Read the transcript carefully
2. Evaluate each criterion using the 4-point scale
3. Provide specific examples from the transcript to support your scores
4. Offer constructive feedback for improvement
5. Calculate an overall score (average of all criteria)

Respond ONLY with valid JSON in this exact format:
{
  "criterion_grades": [
    {
      "criterion": "icp_alignment",
      "score": 3.0,
      "explanation": "Specific explanation with examples from transcript",
      "feedback": "Constructive suggestions for improvement"
    },
    {
      "criterion": "pbo_messaging",
      "score": 2.0,
      "explanation": "Specific explanation with examples from transcript",
      "feedback": "Constructive suggestions for improvement"
    },
    {
      "criterion": "profiling_explanation",
      "score": 4.0,
      "explanation": "Specific explanation with examples from transcript",
      "feedback": "Constructive suggestions for improvement"
    },
    {
      "criterion": "observability_context",
      "score": 3.0,
      "explanation": "Specific explanation with examples from transcript",
      "feedback": "Constructive suggestions for improvement"
    },
    {
      "criterion": "talk_track_alignment",
      "score": 2.0,
      "explanation": "Specific explanation with examples from transcript",
      "feedback": "Constructive suggestions for improvement"
    }
  ],
  "overall_score": 2.8,
  "overall_feedback": "Comprehensive summary of strengths and areas for improvement"
}
`))

var comparativeTemplate = template.Must(template.New("comparative").Parse(`
You are an expert sales trainer comparing two sales pitch performances for Pyroscope (continuous profiling tool).

## Context
Pyroscope helps developers optimize application performance by providing continuous, code-level profiling data. Key value propositions:
- Faster incident resolution through code-level visibility
- Reduced infrastructure costs via optimization insights
- Improved application reliability and performance
- Seamless integration with existing observability stack

## Your Task
Compare these two sales pitches and determine which is more effective overall. Consider all aspects of sales effectiveness.

## Evaluation Criteria
- ICP Alignment: Research quality and prospect targeting
- PBO Messaging: Business outcome focus and impact quantification
- Profiling Explanation: Technical accuracy and clarity
- Observability Context: Integration with monitoring ecosystem
- Talk Track Alignment: Flow, research integration, objection handling

## Participant A ({{.ParticipantAName}})
{{.TranscriptA}}

## Participant B ({{.ParticipantBName}})
{{.TranscriptB}}

## Instructions
1. Analyze both pitches thoroughly
2. Compare their relative strengths and weaknesses
3. Determine the overall winner based on sales effectiveness
4. Provide specific examples to support your decision
5. Offer insights into what made the difference

Respond ONLY with valid JSON in this exact format:
{
  "winner_name": "{{.ParticipantAName}}",
  "winner_reasoning": "Detailed explanation of why this participant won",
  "participant_a_strengths": ["Strength 1", "Strength 2", "Strength 3"],
  "participant_a_weaknesses": ["Weakness 1", "Weakness 2"],
  "participant_b_strengths": ["Strength 1", "Strength 2"],
  "participant_b_weaknesses": ["Weakness 1", "Weakness 2", "Weakness 3"],
  "key_differentiators": ["Factor 1", "Factor 2"],
  "improvement_suggestions": {
    "{{.ParticipantAName}}": "Specific feedback for improvement",
    "{{.ParticipantBName}}": "Specific feedback for improvement"
  }
}
`))

type individualPromptData struct {
	Rubric     string
	Transcript string
}

type comparativePromptData struct {
	ParticipantAName string
	TranscriptA      string
	ParticipantBName string
	TranscriptB      string
}

func buildIndividualPrompt(transcript string) (string, error) {
	var sb strings.Builder
	err := individualTemplate.Execute(&sb, individualPromptData{
		Rubric:     rubric,
		Transcript: transcript,
	})
	return sb.String(), err
}

func buildComparativePrompt(nameA, transcriptA, nameB, transcriptB string) (string, error) {
	var sb strings.Builder
	err := comparativeTemplate.Execute(&sb, comparativePromptData{
		ParticipantAName: nameA,
		TranscriptA:      transcriptA,
		ParticipantBName: nameB,
		TranscriptB:      transcriptB,
	})
	return sb.String(), err
}
