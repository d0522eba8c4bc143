package config

import "time"

// Default values for optional configuration parameters.
const (
	DefaultLogLevel = "info"
	DefaultLogJSON  = false

	DefaultDBPath = "me.db"

	DefaultGeminiModel           = "gemini-1.5-flash"
	DefaultGeminiTemperature     = 0.7
	DefaultGeminiMaxOutputTokens = 1500

	DefaultGatewayTimeout = 2 * time.Minute

	// Opening line shown whenever a chat starts with an empty transcript.
	DefaultChatGreeting = "👋 Sinta-se à vontade para desabafar. Estou aqui para te escutar."

	DefaultMaintenanceEnabled  = false
	DefaultMaintenanceSchedule = "0 0 4 * * *" // daily at 04:00, seconds field included
)
