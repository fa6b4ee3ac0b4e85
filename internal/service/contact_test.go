package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Skotchmaster/marine_shop/internal/transport"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactService_Submit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := &fakeMail{}
	svc := &ContactService{Messages: newStore(t), Mail: m, Inbox: "shop@example.com", Now: tick()}

	msg, err := svc.Submit(ctx, transport.ContactRequest{Name: "Ann", Email: "Ann@Example.com", Subject: "Bulk order", Message: "Need 40 buoys"})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", msg.Email)

	require.Len(t, m.sent, 1)
	assert.Equal(t, "shop@example.com", m.sent[0].to)
	assert.Equal(t, "Contact form: Bulk order", m.sent[0].subject)
	assert.Contains(t, m.sent[0].body, "Need 40 buoys")

	m.err = errors.New("smtp down")
	second, err := svc.Submit(ctx, transport.ContactRequest{Name: "Bo", Email: "bo@example.com", Message: "Hello"})
	require.NoError(t, err, "mail failure is not returned")

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	_, err = svc.Submit(ctx, transport.ContactRequest{Name: "x", Email: "x@example.com"})
	requireKind(t, err, ErrValidation)

	require.NoError(t, svc.Delete(ctx, msg.ID))
	requireKind(t, svc.Delete(ctx, uuid.New()), ErrNotFound)
}
