package pubsub

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"hootsuite-publisher/domain/model"
	"hootsuite-publisher/domain/repository"
)

func TestContentEventSubscriber_Process(t *testing.T) {
	cases := []struct {
		name    string
		data    string
		err     error
		ack     bool
		handled bool
	}{
		{name: "handled", data: `{"content_id":3,"action":"saved"}`, ack: true, handled: true},
		{name: "malformed", data: `{`, ack: true},
		{name: "missing id", data: `{"action":"saved"}`, ack: true},
		{name: "unknown content", data: `{"content_id":4}`, err: fmt.Errorf("load: %w", repository.ErrContentNotFound), ack: true, handled: true},
		{name: "transient failure", data: `{"content_id":5}`, err: errors.New("db down"), ack: false, handled: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			log, _ := test.NewNullLogger()
			var got []model.ContentEvent
			s := NewContentEventSubscriber(nil, "content-saved", func(_ context.Context, e model.ContentEvent) error {
				got = append(got, e)
				return tc.err
			}, log)

			assert.Equal(t, tc.ack, s.process(context.Background(), "m1", []byte(tc.data)))
			assert.Equal(t, tc.handled, len(got) == 1)
		})
	}
}

func TestContentEventSubscriber_LogsFailure(t *testing.T) {
	log, hook := test.NewNullLogger()
	s := NewContentEventSubscriber(nil, "content-saved", func(context.Context, model.ContentEvent) error {
		return errors.New("db down")
	}, log)

	s.process(context.Background(), "m1", []byte(`{"content_id":9}`))

	entry := hook.LastEntry()
	if assert.NotNil(t, entry) {
		assert.Equal(t, logrus.ErrorLevel, entry.Level)
		assert.Equal(t, int64(9), entry.Data["content_id"])
	}
}
