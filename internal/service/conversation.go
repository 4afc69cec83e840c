package service

// Conversation is an immutable message list: every append returns a new
// value, so retry and fallback paths can branch from any point without
// mutating what an earlier step saw.
type Conversation struct {
	messages []ChatMessage
}

func NewConversation(systemPrompt string) Conversation {
	return Conversation{messages: []ChatMessage{
		{Role: "system", Content: systemPrompt},
	}}
}

func (c Conversation) append(msg ChatMessage) Conversation {
	messages := make([]ChatMessage, len(c.messages), len(c.messages)+1)
	copy(messages, c.messages)
	return Conversation{messages: append(messages, msg)}
}

func (c Conversation) WithUser(content string) Conversation {
	return c.append(ChatMessage{Role: "user", Content: content})
}

func (c Conversation) WithSystem(content string) Conversation {
	return c.append(ChatMessage{Role: "system", Content: content})
}

// WithAssistant records the model's turn, tool calls included.
func (c Conversation) WithAssistant(msg ChatMessage) Conversation {
	msg.Role = "assistant"
	return c.append(msg)
}

// WithToolResult records one tool execution result for the given call id.
func (c Conversation) WithToolResult(toolCallID, content string) Conversation {
	return c.append(ChatMessage{Role: "tool", ToolCallID: toolCallID, Content: content})
}

// Messages returns a copy safe to hand to the transport layer.
func (c Conversation) Messages() []ChatMessage {
	messages := make([]ChatMessage, len(c.messages))
	copy(messages, c.messages)
	return messages
}

func (c Conversation) Len() int {
	return len(c.messages)
}
