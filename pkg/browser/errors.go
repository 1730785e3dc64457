package browser

import (
	"context"
	"errors"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"
	errs "socialharvest/pkg/errors"
)

// CDP messages for nodes and objects that no longer exist
var staleMessages = []string{
	"cannot find context with specified id",
	"execution context was destroyed",
	"could not find node with given id",
	"no node with given id found",
	"node is detached from document",
	"cannot find object with id",
}

// classify maps a rod error onto the error taxonomy
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var (
		notFound   *rod.ElementNotFoundError
		objMissing *rod.ObjectNotFoundError
		navErr     *rod.NavigationError
		cdpErr     *cdp.Error
	)
	switch {
	case errors.As(err, &notFound), errors.Is(err, context.DeadlineExceeded):
		return errs.New(errs.ErrorTypeElementNotFound, op, "no match within timeout", err)
	case errors.As(err, &objMissing):
		return errs.New(errs.ErrorTypeStaleReference, op, "remote object released", err)
	case errors.As(err, &navErr):
		return errs.New(errs.ErrorTypeNavigation, op, navErr.Reason, err)
	case errors.As(err, &cdpErr) && isStale(cdpErr.Message):
		return errs.New(errs.ErrorTypeStaleReference, op, cdpErr.Message, err)
	case errors.Is(err, context.Canceled):
		return err
	default:
		return errs.New(errs.ErrorTypeUnknown, op, "", err)
	}
}

func isStale(message string) bool {
	m := strings.ToLower(message)
	for _, s := range staleMessages {
		if strings.Contains(m, s) {
			return true
		}
	}
	return false
}
