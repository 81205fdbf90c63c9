package proxy

// SystemPrompt keeps answers short enough to paste straight back.
const SystemPrompt = `You are a helpful assistant that provides direct, concise answers.
RULES:
- If the question is about CODE: respond with ONLY the code. No explanations, no comments, no markdown code blocks, just raw code.
- For multiple choice questions: state ONLY the correct option (e.g., "B" or "Option B")
- For calculations: show ONLY the final answer
- For general questions: give a brief, direct answer in 1-2 sentences max
- NEVER add preamble like "Here's the answer" or "Sure!"
- NEVER explain your reasoning unless explicitly asked`

// ProbePrompt is sent once at startup to verify the endpoint and key.
const ProbePrompt = "Say 'OK'"

// BuildMessages returns the system instruction followed by the question.
func BuildMessages(question string) []Message {
	return []Message{
		{Role: "system", Content: SystemPrompt},
		{Role: "user", Content: question},
	}
}
