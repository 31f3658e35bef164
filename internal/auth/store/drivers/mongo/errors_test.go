package mongo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aussiebroadwan/carecube/internal/auth/store"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestMapRedeemErr(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "no documents",
			err:  mongo.ErrNoDocuments,
			want: store.ErrNotFound,
		},
		{
			name: "write conflict",
			err:  mongo.CommandError{Code: writeConflictCode, Name: "WriteConflict"},
			want: store.ErrNotFound,
		},
		{
			name: "transient transaction error",
			err: fmt.Errorf("find and delete: %w", mongo.CommandError{
				Code:   251,
				Name:   "NoSuchTransaction",
				Labels: []string{transientTxErrorLabel},
			}),
			want: store.ErrNotFound,
		},
		{
			name: "other server error",
			err:  mongo.CommandError{Code: 13, Name: "Unauthorized"},
		},
		{
			name: "other error",
			err:  errBoom,
			want: errBoom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapRedeemErr(tt.err)
			if tt.want == nil {
				require.NotErrorIs(t, got, store.ErrNotFound)
				return
			}
			require.ErrorIs(t, got, tt.want)
		})
	}
}
