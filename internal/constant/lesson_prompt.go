package constant

const (
	// CreateLessonPrompt args: grade, main subject, related subjects, hours,
	// knowledge goals, academic features.
	CreateLessonPrompt = `You are an experienced cross-disciplinary curriculum designer.
Design a lesson plan for grade %s students, centred on %s and integrating %s.

Requirements:
- Estimated class hours: %d
- Knowledge goals: %s
- Academic features: %s

Structure the plan with exactly these five sections, each introduced by a markdown heading on its own line:
## 1. Objectives
## 2. Cross-disciplinary Links
## 3. Procedure
## 4. Assessment
## 5. Extension

Inside sections use "-" bullets, not numbered lines.
Make the content innovative and practical.
Output the lesson plan only. Do not explain your reasoning or describe what you are going to do.`

	// EnhanceLessonPrompt args: draft lesson plan.
	EnhanceLessonPrompt = `Below is a draft cross-disciplinary lesson plan.

%s

Revise it to deepen the cross-disciplinary integration:
- make every activity in Procedure draw on at least two of the subjects
- tie each Assessment item to both the main subject and a related subject
- add concrete real-world connections in Cross-disciplinary Links

Keep the same five markdown headings (## 1. Objectives, ## 2. Cross-disciplinary Links, ## 3. Procedure, ## 4. Assessment, ## 5. Extension) in the same order.
Return the complete revised lesson plan only, with no commentary.`

	// ModifyLessonPrompt args: current lesson plan, section name, instructions.
	ModifyLessonPrompt = `Here is the current lesson plan:

%s

Modify only the "%s" section according to these instructions:
%s

Every other section must stay exactly as it is, including its heading.
Return the complete modified lesson plan, with all sections and headings, and nothing else.`
)
