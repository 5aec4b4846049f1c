package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/echobloom/echobloom-backend/config"
	"github.com/echobloom/echobloom-backend/internal/ai"
	"github.com/echobloom/echobloom-backend/internal/application"
	"github.com/echobloom/echobloom-backend/internal/domain/repository"
	pginfra "github.com/echobloom/echobloom-backend/internal/infrastructure/postgres"
	"github.com/echobloom/echobloom-backend/pkg/helpers"
	"github.com/echobloom/echobloom-backend/pkg/mailer"
)

// checkinThreshold is the mood score below which a check-in note is sent.
const checkinThreshold = -0.5

func main() {
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-echo-worker", cfg.Env)

	if cfg.RabbitMQURL == "" || cfg.RabbitMQEchoQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}

	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	gen, err := ai.New(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel)
	if err != nil {
		log.Fatalf("failed to init llm client: %v", err)
	}

	echoes := pginfra.NewEchoRepository(pool)
	profiles := pginfra.NewProfileRepository(pool)
	users := pginfra.NewUserRepository(pool)

	var esClient *elasticsearch.Client
	if len(cfg.ESAddrs()) > 0 {
		esClient, err = helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.WithError(err).Warn("elasticsearch unavailable, echoes will not be indexed")
			esClient = nil
		}
	}
	analyzer := application.NewEchoAnalyzer(echoes, profiles, gen, esClient, cfg.ESEchoesIndex, logger)

	var mg *mailer.Mailgun
	if cfg.CheckinMailEnabled && cfg.MailgunDomain != "" && cfg.MailgunAPIKey != "" && cfg.MailgunSender != "" {
		mg = mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}

	if _, err := ch.QueueDeclare(cfg.RabbitMQEchoQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQEchoQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			var job application.AnalysisJob
			if err := json.Unmarshal(msg.Body, &job); err != nil {
				logger.WithError(err).Warn("bad message")
				_ = msg.Nack(false, false)
				continue
			}

			jobCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
			echo, err := analyzer.Analyze(jobCtx, job.EchoID)
			cancel()
			if errors.Is(err, pginfra.ErrNotFound) {
				// The echo was deleted after enqueueing; requeueing would
				// redeliver forever.
				logger.WithField("echo_id", job.EchoID).Warn("echo gone, dropping job")
				_ = msg.Nack(false, false)
				continue
			}
			if err != nil {
				logger.WithError(err).WithField("echo_id", job.EchoID).Error("analysis failed, requeueing")
				_ = msg.Nack(false, true)
				continue
			}

			if mg != nil && echo.MoodScore < checkinThreshold {
				sendCheckin(ctx, logger, users, mg, echo.UserID)
			}

			_ = msg.Ack(false)
		}
		close(done)
	}()

	logger.Infof("echo worker listening on queue=%s", cfg.RabbitMQEchoQueue)
	<-stop
	logger.Info("shutting down...")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

// sendCheckin mails a gentle note when an echo comes back severely low.
// Failures are logged only, the analysis itself already succeeded.
func sendCheckin(ctx context.Context, logger *logrus.Logger, users repository.UserRepository, mg *mailer.Mailgun, userID string) {
	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	user, err := users.GetByID(c, userID)
	if err != nil {
		logger.WithError(err).WithField("user_id", userID).Warn("check-in note skipped, user lookup failed")
		return
	}
	if err := mg.Send(c, user.Email, mailer.CheckinSubject, mailer.CheckinBody(user.Name), ""); err != nil {
		logger.WithError(err).WithField("user_id", userID).Warn("check-in note failed")
		return
	}
	logger.WithField("user_id", userID).Info("check-in note sent")
}
