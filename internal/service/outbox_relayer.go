package service

import (
	"context"
	"time"

	"MyHome/internal/config"
	"MyHome/internal/metrics"
	"MyHome/internal/model"
	"MyHome/internal/pkg"

	"go.uber.org/zap"
)

// Sender 投递一条 outbox 事件
type Sender func(ctx context.Context, ev *model.EventOutbox) error

// OutboxRelayer 定时把 outbox 表中的事件投递到 Kafka
type OutboxRelayer struct {
	repo      OutboxStore
	sender    Sender
	batchSize int
	maxRetry  int
	interval  time.Duration
	log       *zap.Logger
	metrics   *metrics.Metrics
}

func NewOutboxRelayer(repo OutboxStore, sender Sender, cfg config.KafkaConfig, log *zap.Logger, m *metrics.Metrics) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      repo,
		sender:    sender,
		batchSize: cfg.BatchSize,
		maxRetry:  cfg.MaxRetry,
		interval:  cfg.RelayInterval,
		log:       log,
		metrics:   m,
	}
}

// Run 阻塞直到 ctx 取消
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.DrainOnce(ctx)
		}
	}
}

// DrainOnce 按 id 顺序投递一批事件，返回成功条数
func (r *OutboxRelayer) DrainOnce(ctx context.Context) int {
	rows, err := r.repo.List(ctx, r.batchSize)
	if err != nil {
		r.log.Error("outbox query failed", zap.Error(err))
		return 0
	}
	sent := 0
	for i := range rows {
		ev := rows[i]
		if err := r.sender(ctx, &ev); err != nil {
			r.metrics.OutboxFailed()
			if ev.Retry+1 >= r.maxRetry {
				r.log.Error("outbox event dropped", zap.Uint64("id", ev.ID), zap.String("type", ev.EventType), zap.Error(err))
				r.logUpdate(r.repo.MarkFailed(ctx, ev.ID), ev.ID)
				continue
			}
			r.log.Warn("outbox send failed", zap.Uint64("id", ev.ID), zap.Int("retry", ev.Retry+1), zap.Error(err))
			r.logUpdate(r.repo.RetryUpdate(ctx, ev.ID), ev.ID)
			continue
		}
		r.metrics.OutboxSent()
		r.logUpdate(r.repo.SuccessUpdate(ctx, ev.ID), ev.ID)
		sent++
	}
	return sent
}

func (r *OutboxRelayer) logUpdate(err error, id uint64) {
	if err != nil {
		r.log.Error("outbox status update failed", zap.Uint64("id", id), zap.Error(err))
	}
}

// KafkaSender 以聚合 id 作为消息 key
func KafkaSender(p *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ev *model.EventOutbox) error {
		return p.Send(ctx, ev.AggregateID, []byte(ev.Payload))
	}
}

// LogSender 未配置 Kafka 时使用
func LogSender(log *zap.Logger) Sender {
	return func(_ context.Context, ev *model.EventOutbox) error {
		log.Info("outbox event",
			zap.Uint64("id", ev.ID),
			zap.String("type", ev.EventType),
			zap.String("aggregate_id", ev.AggregateID),
			zap.String("payload", ev.Payload),
		)
		return nil
	}
}
