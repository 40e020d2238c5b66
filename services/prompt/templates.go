package prompt

const (
	quizSystemInstruction = "You are a strict quiz generator. Return ONLY valid JSON matching the schema."

	reviewQuizTemplate = `Analyze the provided learning material and generate a **Review Quiz**.
Goal: Check whether the student has carefully read the slides and material.
Requirements:
1. Generate 5-8 multiple choice questions (type 'MCQ') with 4 options each.
2. Focus strictly on **recall of specific details**, definitions, and key facts.`

	previewQuizTemplate = `Analyze the provided learning material and generate a **Preview Quiz**.
Goal: Prime the student's interest and check prerequisite knowledge.
Requirements:
1. Generate 3-5 multiple choice questions (type 'MCQ') with 4 options each.
2. Focus on **introductory concepts, intuition, or prerequisites**.`

	comprehensiveQuizTemplate = `Analyze the provided learning material and generate a **Comprehensive Test**.
Goal: Assess deep understanding and the ability to apply it.
Requirements:
1. Generate 5-8 multiple choice questions (type 'MCQ') with 4 options each.
2. Focus on **application, synthesis, and critical thinking**.`

	examHeaderTemplate = `Analyze the provided learning material and generate a **%s**%s.

Structure Requirements (follow exactly):
1. **%d True/False Questions** (type 'TF').
   - Provide 'options': ["True", "False"].
   - Set 'correctAnswerIndex' to 0 for True and 1 for False.
2. **%d Multiple Choice Questions** (type 'MCQ').
   - Provide 4 options.
`

	codingOpenTemplate = `3. **%d Coding / Handwritten Code Questions** (type 'OPEN').
   - Coding problems or algorithm design questions.
   - Start the 'question' field with the point value (e.g. "(20 points)") followed by the problem statement.
   - Provide a code template or starter code in the 'codeSnippet' field.
   - State in the question that "Students may answer using any programming language or pseudocode."
   - Do NOT provide 'options' or 'correctAnswerIndex'.
   - Put the full solution (Python or pseudocode) and its reasoning in 'explanation'.
`

	roboticsOpenTemplate = `3. **%d Mathematical / Analytical Problems** (type 'OPEN').
   - Robotics mathematics such as trajectory planning and polynomial interpolation, homogeneous
     transformations, rotation matrices, D-H parameters and forward kinematics, Jacobians and
     singular configurations, inverse kinematics, or camera projection models.
   - State every given quantity in the 'question' field using LaTeX notation
     (e.g. $\theta$, matrices with \begin{bmatrix}...\end{bmatrix}).
   - Do NOT include coding requirements and do NOT provide 'codeSnippet'.
   - Do NOT provide 'options' or 'correctAnswerIndex'.
   - Provide 'diagramPrompt': a description for image generation covering the robot configuration
     (e.g. "3-DOF RRR manipulator"), link lengths and joint types, coordinate frames (right-hand rule),
     joint angles, axis arrows and labels. Style: "Technical diagram, clean lines, labeled axes,
     engineering schematic style".
   - Put a step-by-step solution with every intermediate calculation and the final answer, in LaTeX, in 'explanation'.
`

	examFooterTemplate = `
Total Questions: %d.`

	optionRationaleAddendum = `

IMPORTANT: For every Multiple Choice (MCQ) and True/False (TF) question you MUST provide 'optionExplanations'.
'optionExplanations' is an array of strings; each string explains why the option at the same position is correct or incorrect.
Its length and order must match the 'options' array exactly.`

	presentationTemplate = `You are an expert professor creating a **comprehensive, self-paced learning course** from the lecture summaries below.

Goal: the student must be able to **learn the key concepts** by reading this presentation.

Generate a detailed slide deck of 8-12 slides.

Course Content Summaries:
%s

Requirements:
1. **Structure**: cover the most important concepts in a smooth narrative.
2. **Depth**: focus on major definitions and algorithms. For binary trees and hash tables include a
   code snippet (Python or pseudocode) and an ASCII art diagram; include code examples for key algorithms.
3. **'bulletPoints'**: concise, high level summary points.
4. **'explanation'**:
   - Use numbered lists (1., 2., 3.) with a blank line between items and **bold** key terms.
   - Give concrete examples for major concepts and explain every code snippet.
   - Code blocks: put the triple backticks and the language on ONE line with no space, e.g. ` + "```python" + `.
   - ASCII diagrams use the "text" language tag, e.g. ` + "```text" + `.`

	reviewGuideTemplate = `You are an expert academic tutor. The student has provided this week's lecture slides or notes.

Task: create a comprehensive **Weekly Review Guide** structured as:
1. **Executive Summary**: a 2-sentence overview of the week's core theme.
2. **Key Concepts & Definitions**: detailed explanations of the most important terms.
3. **Critical Formulas/Theories**: if applicable, with usage context.
4. **Exam Highlights**: topics highly likely to be tested given the emphasis in the material.
5. **Common Pitfalls**: what students usually misunderstand about this topic.

Format with clean Markdown (headers, bullet points, bold text).`

	previewGuideTemplate = `You are an expert academic tutor. The student has provided material for the *upcoming* week's lectures.

Task: create a **Preview Strategy Guide** structured as:
1. **Big Picture**: what this week is about and why it matters.
2. **Prerequisites**: concepts to refresh before class.
3. **Key Questions**: questions to keep in mind while listening.
4. **Vocabulary**: new terms with one-line definitions.

Format with clean Markdown (headers, bullet points, bold text).`

	codeImageInstruction = "Analyze the code in this image."

	codeSnippetTemplate = "Analyze the following code snippet:\n```\n%s\n```"

	codeTutorInstruction = `You are an expert code interpreter and tutor. Provide a detailed explanation.

Requirements:
1. Explain what the code does overall.
2. Break down the key logic or syntax block by block.
3. Point out potential issues, optimizations, or best practices.
4. Use Markdown formatting for clarity.`

	reportTemplate = `The student just finished a quiz and got the following questions WRONG:

%s

Based on these mistakes, identify the specific topics or concepts the student is struggling with.
Write a constructive, encouraging report (3-5 sentences) on what they should review.
Address the student directly as "you".`

	tutorPreambleTemplate = `You are an AI tutor helping a student with their study material.

%s

The student has a follow-up question. Answer it clearly and concisely.
- If they are confused, explain in simpler terms or give an example.
- If they ask for code, give Python or pseudocode examples when relevant.
- Stay on this topic and do not give away answers to other questions.`

	// TutorAcknowledgement is the assistant turn that follows the tutor preamble.
	TutorAcknowledgement = "Understood. I'm ready to help the student with this."
)
