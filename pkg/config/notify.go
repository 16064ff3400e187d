package config

// NotifyConfig configures the outbound delivery channels.
type NotifyConfig struct {
	MailProvider string
	FromAddress  string
	AWSRegion    string

	// Gateway endpoints for text channels. Empty means the console adapter
	// is used for that channel.
	SMSGatewayURL      string
	WhatsAppGatewayURL string
	GatewayAPIKey      string
}

func loadNotifyConfig() NotifyConfig {
	return NotifyConfig{
		MailProvider:       getEnv("NOTIFY_MAIL_PROVIDER", "console"),
		FromAddress:        getEnv("NOTIFY_FROM_ADDRESS", "noreply@oidc-lite.dev"),
		AWSRegion:          getEnv("NOTIFY_AWS_REGION", getEnv("AWS_REGION", "us-east-1")),
		SMSGatewayURL:      getEnv("NOTIFY_SMS_GATEWAY_URL", ""),
		WhatsAppGatewayURL: getEnv("NOTIFY_WHATSAPP_GATEWAY_URL", ""),
		GatewayAPIKey:      getEnv("NOTIFY_GATEWAY_API_KEY", ""),
	}
}
