package main

import (
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/merchantkit/checkout-backend/api"
	"github.com/merchantkit/checkout-backend/db"
	"github.com/merchantkit/checkout-backend/notifications"
	"github.com/merchantkit/checkout-backend/notifications/smtp"
	"github.com/merchantkit/checkout-backend/stripe"
	"go.vocdoni.io/dvote/log"
)

func main() {
	log.Init("debug", "stdout", nil)
	// define flags
	flag.StringP("host", "h", "0.0.0.0", "listen address")
	flag.IntP("port", "p", 8080, "listen port")
	flag.StringP("secret", "s", "", "API secret used to sign customer tokens")
	flag.String("storefrontKey", "", "shared key authenticating storefront hook calls")
	flag.String("mongoURL", "", "The URL of the MongoDB server")
	flag.String("mongoDB", "checkout-backend", "The name of the MongoDB database")
	flag.StringP("webURL", "w", "http://localhost:3000", "The URL of the storefront web application")
	flag.String("stripeApiSecret", "", "Stripe API secret")
	flag.String("stripeWebhookSecret", "", "Stripe webhook signing secret")
	flag.String("siteId", "RefArch", "identifier of the storefront site")
	flag.String("reviewMailbox", "", "merchant mailbox alerted when a payment enters manual review")
	flag.String("smtpServer", "", "SMTP server")
	flag.Int("smtpPort", 587, "SMTP port")
	flag.String("smtpUsername", "", "SMTP username")
	flag.String("smtpPassword", "", "SMTP password")
	flag.String("emailFromAddress", "", "Email service from address")
	flag.String("emailFromName", "Checkout", "Email service from name")
	// parse flags
	flag.Parse()
	// initialize Viper
	viper.SetEnvPrefix("CHECKOUT")
	if err := viper.BindPFlags(flag.CommandLine); err != nil {
		panic(err)
	}
	viper.AutomaticEnv()
	// read the configuration
	host := viper.GetString("host")
	port := viper.GetInt("port")
	secret := viper.GetString("secret")
	if secret == "" {
		log.Fatal("secret is required")
	}
	storefrontKey := viper.GetString("storefrontKey")
	if storefrontKey == "" {
		log.Fatal("storefrontKey is required")
	}
	mongoURL := viper.GetString("mongoURL")
	mongoDB := viper.GetString("mongoDB")
	webAppURL := viper.GetString("webURL")
	stripeAPISecret := viper.GetString("stripeApiSecret")
	stripeWebhookSecret := viper.GetString("stripeWebhookSecret")
	siteID := viper.GetString("siteId")
	reviewMailbox := viper.GetString("reviewMailbox")
	smtpServer := viper.GetString("smtpServer")
	smtpPort := viper.GetInt("smtpPort")
	smtpUsername := viper.GetString("smtpUsername")
	smtpPassword := viper.GetString("smtpPassword")
	emailFromAddress := viper.GetString("emailFromAddress")
	emailFromName := viper.GetString("emailFromName")

	// initialize the MongoDB database
	database, err := db.New(mongoURL, mongoDB)
	if err != nil {
		log.Fatalf("could not create the MongoDB database: %v", err)
	}
	defer database.Close()

	// create the email notification service if configured
	var mailService notifications.NotificationService
	if smtpServer != "" && emailFromAddress != "" {
		mailService = new(smtp.Email)
		if err := mailService.New(&smtp.Config{
			FromName:     emailFromName,
			FromAddress:  emailFromAddress,
			SMTPServer:   smtpServer,
			SMTPPort:     smtpPort,
			SMTPUsername: smtpUsername,
			SMTPPassword: smtpPassword,
		}); err != nil {
			log.Fatalf("could not create the email service: %v", err)
		}
		log.Infow("email service created", "server", smtpServer, "from", emailFromAddress)
	}

	// create the Stripe service
	stripeService, err := stripe.NewService(&stripe.Config{
		APIKey:        stripeAPISecret,
		WebhookSecret: stripeWebhookSecret,
		SiteID:        siteID,
		WebAppURL:     webAppURL,
		ReviewMailbox: reviewMailbox,
	}, database, mailService)
	if err != nil {
		log.Fatalf("could not create the Stripe service: %v", err)
	}

	// create the local API server
	api.New(&api.Config{
		Host:          host,
		Port:          port,
		Secret:        secret,
		DB:            database,
		Stripe:        stripeService,
		StorefrontKey: storefrontKey,
		WebAppURL:     webAppURL,
	}).Start()
	// wait forever, as the server is running in a goroutine
	log.Infow("server started", "host", host, "port", port)
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
}
