package worker

import (
	"FileVault/config"
	"FileVault/internal/mq"
	"FileVault/utils"
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/time/rate"
)

type dlqMessage struct {
	To       string    `json:"to"`
	Kind     string    `json:"kind"`
	Attempt  int       `json:"attempt"`
	Error    string    `json:"error"`
	FailedAt time.Time `json:"failed_at"`
}

// RunMailWorker consumes mail jobs from RabbitMQ and delivers them over
// SMTP, rate limited so the mail relay is never hammered.
func RunMailWorker(ctx context.Context) error {
	client, err := mq.Dial()
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.DeclareTopology(); err != nil {
		return err
	}

	prefetch := config.AppConfig.RabbitMQPrefetch
	if prefetch <= 0 {
		prefetch = 1
	}
	if err := client.Channel.Qos(prefetch, 0, false); err != nil {
		return err
	}

	deliveries, err := client.Channel.Consume(mq.QueueMail, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	concurrency := config.AppConfig.MailWorkerConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	sem := make(chan struct{}, concurrency)

	burst := config.AppConfig.MailBurst
	if burst <= 0 {
		burst = 1
	}
	rateLimit := config.AppConfig.MailRate
	var limiter *rate.Limiter
	if rateLimit <= 0 {
		limiter = rate.NewLimiter(rate.Inf, burst)
	} else {
		limiter = rate.NewLimiter(rate.Limit(rateLimit), burst)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("mail worker: delivery channel closed")
			}
			sem <- struct{}{}
			go func(d amqp.Delivery) {
				defer func() { <-sem }()
				handleMailMessage(ctx, client, limiter, d)
			}(delivery)
		}
	}
}

func handleMailMessage(ctx context.Context, client *mq.Client, limiter *rate.Limiter, delivery amqp.Delivery) {
	var msg mq.MailMessage
	if err := json.Unmarshal(delivery.Body, &msg); err != nil {
		log.Printf("mail worker: invalid message: %v", err)
		_ = delivery.Ack(false)
		return
	}

	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			_ = delivery.Nack(false, true)
			return
		}
	}

	if err := deliver(msg); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			_ = delivery.Nack(false, true)
			return
		}
		if err := scheduleRetry(ctx, client, msg, err); err != nil {
			log.Printf("mail worker: retry schedule failed: %v", err)
			_ = delivery.Nack(false, true)
			return
		}
	}

	_ = delivery.Ack(false)
}

func deliver(msg mq.MailMessage) error {
	switch msg.Kind {
	case mq.MailKindActivate:
		return utils.SendActivateMail(msg.To, msg.Link)
	case mq.MailKindLinkIssued:
		return utils.SendLinkIssuedMail(msg.To, msg.FileName, msg.Link)
	default:
		log.Printf("mail worker: unknown mail kind %q, dropping", msg.Kind)
		return nil
	}
}

func scheduleRetry(ctx context.Context, client *mq.Client, msg mq.MailMessage, sendErr error) error {
	maxRetry := config.AppConfig.MailRetryMax
	if maxRetry < 0 {
		maxRetry = 0
	}
	nextAttempt := msg.Attempt + 1
	if maxRetry == 0 || nextAttempt > maxRetry {
		return publishDLQ(ctx, client, msg, sendErr)
	}

	msg.Attempt = nextAttempt
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	delay := pickRetryDelay(nextAttempt, config.AppConfig.MailRetryDelays)
	return client.PublishRetry(ctx, body, delay)
}

func publishDLQ(ctx context.Context, client *mq.Client, msg mq.MailMessage, sendErr error) error {
	body, err := json.Marshal(dlqMessage{
		To:       msg.To,
		Kind:     msg.Kind,
		Attempt:  msg.Attempt,
		Error:    sendErr.Error(),
		FailedAt: time.Now(),
	})
	if err != nil {
		return err
	}
	return client.PublishDLQ(ctx, body)
}

func pickRetryDelay(attempt int, delays []time.Duration) time.Duration {
	if len(delays) == 0 {
		return 30 * time.Second
	}
	idx := attempt - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(delays) {
		idx = len(delays) - 1
	}
	return delays[idx]
}
