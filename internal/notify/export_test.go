package notify

// NewTelegramSenderForTest points the sender at a local test server.
func NewTelegramSenderForTest(token, baseURL string) *TelegramSender {
	s := NewTelegramSender(token)
	s.baseURL = baseURL
	return s
}
