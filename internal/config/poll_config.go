package config

import "time"

type PollConfig interface {
	GetCartPollInterval() time.Duration
	GetOrderPollInterval() time.Duration
	GetNotificationPollInterval() time.Duration
}

type Poll struct{}

var _ PollConfig = Poll{}

func (Poll) GetCartPollInterval() time.Duration {
	return 30 * time.Second
}

func (Poll) GetOrderPollInterval() time.Duration {
	return 5 * time.Second
}

func (Poll) GetNotificationPollInterval() time.Duration {
	return 15 * time.Second
}
