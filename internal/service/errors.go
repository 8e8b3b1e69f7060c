package service

import (
	"errors"
	"sync"

	"connectrpc.com/connect"
	"github.com/mmynk/splitsavvy/internal/storage"
	"github.com/mmynk/splitsavvy/internal/validation"
)

var requestValidator = sync.OnceValue(validation.New)

// validate checks a request message against its struct tags.
func validate(msg any) error {
	if err := requestValidator().Struct(msg); err != nil {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	return nil
}

// storeError maps a storage failure to a Connect error.
func storeError(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return connect.NewError(connect.CodeNotFound, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}

func invalidArgument(err error) error {
	return connect.NewError(connect.CodeInvalidArgument, err)
}
