// Copyright © 2023 Kaleido, Inc.
//
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package notify

import (
	"context"
	"encoding/json"

	"github.com/kaleido-io/walletcore/internal/config"
	"github.com/kaleido-io/walletcore/internal/i18n"
	"github.com/kaleido-io/walletcore/internal/log"
	"github.com/kaleido-io/walletcore/pkg/notify"
	kafka "github.com/segmentio/kafka-go"
)

// messageWriter is the slice of kafka.Writer we use, so tests can substitute
// a capture
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier publishes completion events to a Kafka topic, keyed by
// network so downstream consumers keep per-network ordering
type KafkaNotifier struct {
	topic  string
	writer messageWriter
}

func NewKafkaNotifier(ctx context.Context) *KafkaNotifier {
	topic := config.GetString(config.CompletionTopic)
	brokers := config.GetStringSlice(config.CompletionBrokers)
	log.L(ctx).Infof("Completion events will publish to topic '%s' via %v", topic, brokers)
	return &KafkaNotifier{
		topic: topic,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			WriteTimeout: config.GetDuration(config.CompletionWriteTimeout),
		},
	}
}

// TransactionCompleted implements notify.Notifier
func (kn *KafkaNotifier) TransactionCompleted(ctx context.Context, event *notify.CompletionEvent) error {
	payload, _ := json.Marshal(event)
	err := kn.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Network),
		Value: payload,
	})
	if err != nil {
		return i18n.WrapError(ctx, err, i18n.MsgKafkaEmitFailed, kn.topic)
	}
	log.L(ctx).Debugf("Published completion of session %s to '%s'", event.SessionID, kn.topic)
	return nil
}

// Close flushes and releases the producer
func (kn *KafkaNotifier) Close() error {
	return kn.writer.Close()
}
