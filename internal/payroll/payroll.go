package payroll

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/schedulehub/backend/internal/config"
	"github.com/schedulehub/backend/internal/domain"
)

// Collaborator 是外部薪资系统的协作接口。
// 调用失败由调用方记录日志并容忍，不会让下班打卡失败
type Collaborator interface {
	RecordTimeEntry(entry *domain.TimeEntry, userID int64) (*domain.TimeEntryReceipt, error)
}

// QueueCollaborator 把工时记录发布到薪资消息队列，由外部系统异步消费
type QueueCollaborator struct {
	cfg     *config.Config
	channel *amqp.Channel
}

func NewQueueCollaborator(cfg *config.Config, ch *amqp.Channel) *QueueCollaborator {
	return &QueueCollaborator{
		cfg:     cfg,
		channel: ch,
	}
}

type timeEntryMessage struct {
	TimeEntryID string            `json:"timeEntryID"`
	RecordedBy  int64             `json:"recordedBy"`
	Entry       *domain.TimeEntry `json:"entry"`
}

func (c *QueueCollaborator) RecordTimeEntry(entry *domain.TimeEntry, userID int64) (*domain.TimeEntryReceipt, error) {
	message := timeEntryMessage{
		TimeEntryID: uuid.NewString(),
		RecordedBy:  userID,
		Entry:       entry,
	}

	body, err := json.Marshal(message)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(c.cfg.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := c.channel.PublishWithContext(
		ctx,
		"",
		"payroll_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	); err != nil {
		return nil, err
	}

	return &domain.TimeEntryReceipt{
		TimeEntryID: message.TimeEntryID,
		Success:     true,
	}, nil
}
