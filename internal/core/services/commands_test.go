package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/storefront/internal/core/services"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		region  string
		action  string
		id      string
		want    services.Command
		wantErr error
	}{
		{
			name:   "inventory_increment",
			region: "inventory", action: "increment", id: "1",
			want: services.Command{Region: services.RegionInventory, Action: services.ActionIncrement, ItemID: 1},
		},
		{
			name:   "case_and_space_insensitive",
			region: " Cart ", action: "SAVE", id: " 7 ",
			want: services.Command{Region: services.RegionCart, Action: services.ActionSave, ItemID: 7},
		},
		{
			name:   "checkout_without_id",
			region: "checkout", action: "submit",
			want: services.Command{Region: services.RegionCheckout, Action: services.ActionSubmit},
		},
		{
			name:   "unknown_pair",
			region: "checkout", action: "delete", id: "1",
			wantErr: services.ErrUnknownCommand,
		},
		{
			name:   "missing_id",
			region: "cart", action: "delete",
			wantErr: services.ErrInvalidCommand,
		},
		{
			name:   "non_numeric_id",
			region: "cart", action: "delete", id: "abc",
			wantErr: services.ErrInvalidCommand,
		},
		{
			name:   "negative_id",
			region: "inventory", action: "add", id: "-3",
			wantErr: services.ErrInvalidCommand,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := services.ParseCommand(tt.region, tt.action, tt.id)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommands_CoverDispatchTable(t *testing.T) {
	cmds := services.Commands()
	assert.Len(t, cmds, 10)

	for _, cmd := range cmds {
		_, err := services.ParseCommand(string(cmd.Region), string(cmd.Action), "1")
		assert.NoError(t, err, cmd.String())
	}
}
