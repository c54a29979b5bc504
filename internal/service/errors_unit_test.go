//go:build unit

package service

import (
	"errors"
	"fmt"
	"testing"
	"transferwiki/internal/data"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"not found", notFound("x", data.ErrNotFound), KindNotFound},
		{"validation", validation("x"), KindValidation},
		{"forbidden", forbidden("x"), KindForbidden},
		{"conflict", conflict("x", nil), KindConflict},
		{"transient", transient("x", errors.New("io")), KindTransient},
		{"wrapped", fmt.Errorf("outer: %w", forbidden("x")), KindForbidden},
		{"plain error", errors.New("anything"), KindTransient},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := KindOf(tc.err); got != tc.want {
				t.Errorf("KindOf = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsKindNil(t *testing.T) {
	if IsKind(nil, KindTransient) {
		t.Error("IsKind(nil, ...) must be false")
	}
}

func TestUnwrapPreservesSentinels(t *testing.T) {
	err := mapStoreErr(fmt.Errorf("page: %w", data.ErrNotFound), "load failed")
	if !errors.Is(err, data.ErrNotFound) {
		t.Error("expected the sentinel to survive wrapping")
	}
	if !IsKind(err, KindNotFound) {
		t.Errorf("expected not found kind, got %v", KindOf(err))
	}
}

func TestMapStoreErr(t *testing.T) {
	if !IsKind(mapStoreErr(data.ErrVersionConflict, "x"), KindConflict) {
		t.Error("version conflict must map to conflict")
	}
	if !IsKind(mapStoreErr(data.ErrEditNotPending, "x"), KindConflict) {
		t.Error("not-pending must map to conflict")
	}
	if !IsKind(mapStoreErr(errors.New("io"), "x"), KindTransient) {
		t.Error("unknown errors must map to transient")
	}
}
