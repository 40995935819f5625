package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"silverarcade/config"
	"silverarcade/models"
	"silverarcade/utils"
)

// StartEmailWorker runs the asynq worker that delivers queued emails. It
// retries startup a few times before giving up so a slow Redis boot does not
// kill the process.
func StartEmailWorker() {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(redisOpts, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			"default": 1,
		},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeSendAcknowledgement, handleEmailTask(renderAcknowledgement))
	mux.HandleFunc(TypeSendConfirmation, handleEmailTask(renderConfirmation))

	go func() {
		logger := utils.GetLogger()
		logger.Info("starting email worker")
		const maxAttempts = 5
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			logger.Error("email worker failed to start",
				zap.Int("attempt", attempt), zap.Error(err))
			if attempt == maxAttempts {
				logger.Fatal("email worker exhausted startup retries")
			}
			time.Sleep(time.Duration(attempt*2) * time.Second)
		}
	}()
}

func handleEmailTask(render func(*models.Reservation) (string, string, error)) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p emailPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			utils.GetLogger().Error("invalid email task payload",
				zap.String("type", task.Type()), zap.Error(err))
			return err
		}

		subject, body, err := render(&p.Reservation)
		if err != nil {
			return err
		}
		if err := sendMail(p.Reservation.GuestInfo.Email, subject, body); err != nil {
			utils.GetLogger().Error("email delivery failed",
				zap.String("type", task.Type()),
				zap.String("reservationId", p.Reservation.ID),
				zap.Error(err))
			return err
		}

		utils.GetLogger().Info("email sent",
			zap.String("type", task.Type()),
			zap.String("reservationId", p.Reservation.ID))
		return nil
	}
}
