// Root composition root. Owns infrastructure (DB, Redis, delivery channels)
// and composes the module container. This is the only place that knows about
// every concrete adapter.
package main

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/oidc-lite/oidc-lite/pkg/config"
	"github.com/oidc-lite/oidc-lite/pkg/idp/idpcontainer"
	"github.com/oidc-lite/oidc-lite/pkg/notifx"
	"github.com/oidc-lite/oidc-lite/pkg/notifx/notifxconsole"
	"github.com/oidc-lite/oidc-lite/pkg/notifx/notifxgateway"
	"github.com/oidc-lite/oidc-lite/pkg/notifx/notifxses"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Container holds shared infrastructure and the composed module.
type Container struct {
	Config *config.Config
	Log    *zap.Logger

	DB    *sqlx.DB
	Redis *redis.Client

	IDP *idpcontainer.Container
}

func NewContainer(cfg *config.Config, log *zap.Logger) (*Container, error) {
	c := &Container{Config: cfg, Log: log}

	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	c.IDP = idpcontainer.New(idpcontainer.Deps{
		DB:    c.DB,
		Redis: c.Redis,
		Cfg:   cfg,
		Mux:   c.buildDeliveryMux(),
		Log:   log,
	})

	return c, nil
}

func (c *Container) initInfrastructure() error {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Config.Database.Host,
		c.Config.Database.Port,
		c.Config.Database.User,
		c.Config.Database.Password,
		c.Config.Database.Name,
		c.Config.Database.SSLMode,
	)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	db.SetMaxOpenConns(c.Config.Database.MaxOpenConns)
	db.SetMaxIdleConns(c.Config.Database.MaxIdleConns)
	db.SetConnMaxLifetime(c.Config.Database.ConnMaxLifetime)
	c.DB = db
	c.Log.Info("database connected")

	if c.Config.Redis.Enabled {
		c.Redis = redis.NewClient(&redis.Options{
			Addr:     c.Config.Redis.Address(),
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		})
		if _, err := c.Redis.Ping(context.Background()).Result(); err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		c.Log.Info("redis connected")
	} else {
		c.Log.Warn("redis disabled, OTP send rate limiting is off")
	}

	return nil
}

// buildDeliveryMux wires one sender per channel. Channels without a
// configured transport fall back to the console adapter.
func (c *Container) buildDeliveryMux() *notifx.Mux {
	mux := notifx.NewMux()

	switch c.Config.Notify.MailProvider {
	case "ses":
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(c.Config.Notify.AWSRegion))
		if err != nil {
			c.Log.Fatal("unable to load AWS SDK config", zap.Error(err))
		}
		mux.Register(notifx.ChannelMail,
			notifxses.NewSender(ses.NewFromConfig(awsCfg), c.Config.Notify.FromAddress))
		c.Log.Info("mail channel: SES", zap.String("region", c.Config.Notify.AWSRegion))
	default:
		mux.Register(notifx.ChannelMail, notifxconsole.NewSender(c.Log, notifx.ChannelMail))
		c.Log.Warn("mail channel: console (dev mode)")
	}

	if url := c.Config.Notify.SMSGatewayURL; url != "" {
		mux.Register(notifx.ChannelSMS,
			notifxgateway.NewSender(url, c.Config.Notify.GatewayAPIKey, notifx.ChannelSMS))
	} else {
		mux.Register(notifx.ChannelSMS, notifxconsole.NewSender(c.Log, notifx.ChannelSMS))
	}

	if url := c.Config.Notify.WhatsAppGatewayURL; url != "" {
		mux.Register(notifx.ChannelWhatsApp,
			notifxgateway.NewSender(url, c.Config.Notify.GatewayAPIKey, notifx.ChannelWhatsApp))
	} else {
		mux.Register(notifx.ChannelWhatsApp, notifxconsole.NewSender(c.Log, notifx.ChannelWhatsApp))
	}

	return mux
}

func (c *Container) Cleanup() {
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			c.Log.Error("error closing database", zap.Error(err))
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Log.Error("error closing redis", zap.Error(err))
		}
	}
}
