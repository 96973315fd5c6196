package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Ram-SrinivasChandran/cos-spring-project/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressCreateAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := f.address(t, f.customer)
	f.address(t, f.other)

	list, err := f.addrs.List(ctx, f.customer)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)

	var got entity.Address
	require.NoError(t, json.Unmarshal(list[0].Address, &got))
	assert.Equal(t, "Chennai", got.City)
	assert.Equal(t, "600001", got.PostalCode)
}

func TestAddressCreateRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.addrs.Create(ctx, f.customer, &entity.Address{City: "Chennai"})
	require.ErrorIs(t, err, ErrValidation)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	fields := []string{}
	for _, v := range verr.Violations {
		fields = append(fields, v.Field)
	}
	assert.ElementsMatch(t, []string{"line1", "postalCode"}, fields)

	_, err = f.addrs.Create(ctx, f.staff, &entity.Address{Line1: "x", City: "y", PostalCode: "1"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}
