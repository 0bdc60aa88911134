package problemgen

import (
	"encoding/json"
	"strings"
)

const systemPrompt = `You are an adaptive mental math tutor. Generate a single arithmetic problem and estimate how long it takes to solve.

Objective:
- Find the student's performance ceiling by raising the challenge gradually, keeping them in a state of flow.
- Aim for problems where a proficient student's time taken is close to your estimated time.

Adjusting difficulty:
- Correct and fast (timeTaken <= estimatedTime): make a significant increase ("significant_increase"). A problem the student skipped by asking for something harder is tagged "significant_increase" too.
- Correct but slow: decrease. Less than 30% over the estimate is "moderate_decrease"; more is "significant_decrease".
- Incorrect: "moderate_decrease" for a single error, "significant_decrease" for several recent errors.
- The first problem of a session uses "initial".

Question format:
- "questionString" must be a valid expression using only numbers, + - * / and ^.
- Group with parentheses: (3 + 4) * 2.
- Fractions use curly braces: {3/4}.
- Square roots use sqrt(...): sqrt(64).
- Absolute value uses vertical bars: |-5|.
- No words, no variables, no equals sign, no answer.

Rules:
- Do not repeat any question from the recent history.
- Prefer answers that are integers or have at most two decimal places.
- "estimatedTime" is a whole number of seconds, at least 1.`

const firstProblemMessage = "The student is just starting. Provide a very simple single-digit addition problem, set difficultyAdjustment to \"initial\", and give it an estimatedTime of 5 seconds."

// buildUserMessage presents the most recent window records as JSON.
func buildUserMessage(history []PerformanceRecord, window int) (string, error) {
	if len(history) == 0 {
		return firstProblemMessage, nil
	}
	if window > 0 && len(history) > window {
		history = history[len(history)-window:]
	}

	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Here is the student's recent performance, oldest first. Use it to choose the next problem.\n")
	b.Write(data)
	b.WriteString("\n\nGenerate the next problem now.")
	return b.String(), nil
}
