package config

import "time"

// OTPConfig configures the one-time passcode subsystem. The expiry window is
// read once at startup; changing it does not affect codes already issued.
type OTPConfig struct {
	Expiry        time.Duration
	SweepInterval time.Duration
	SendCooldown  time.Duration
}

func loadOTPConfig() OTPConfig {
	return OTPConfig{
		Expiry:        time.Duration(getEnvInt("OTP_EXPIRY_SECONDS", 300)) * time.Second,
		SweepInterval: getEnvDuration("OTP_SWEEP_INTERVAL", 60*time.Second),
		SendCooldown:  getEnvDuration("OTP_SEND_COOLDOWN", 60*time.Second),
	}
}
