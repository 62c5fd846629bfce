package main

import (
	"errors"
	"reflect"

	"github.com/recordkit/recordkit/internal/record"
)

const (
	encodingFailTag = "❌FAIL - ENCODING"
	filterFailTag   = "❌FAIL - FILTER"
	fieldFailTag    = "❌FAIL - FIELD"
)

var errToLabel = map[error]string{
	record.ErrEncodingUnresolved{}:     encodingFailTag,
	record.ErrFilterWindowMissing{}:    filterFailTag,
	record.ErrFilterLineRejected{}:     filterFailTag,
	record.ErrFieldConstraintViolated{}: fieldFailTag,
}

func errorsToLabels(errs []error) []string {
	labels := make([]string, 0, len(errs))

	var (
		encodingOK = true
		filterOK   = true
		fieldsOK   = true
	)
	setLabel := func(label string) {
		switch label {
		case encodingFailTag:
			encodingOK = false
		case filterFailTag:
			filterOK = false
		case fieldFailTag:
			fieldsOK = false
		}
		labels = append(labels, label)
	}

	for _, err := range errs {
		for tpl, label := range errToLabel {
			if isType(err, tpl) {
				setLabel(label)
				break
			}
		}
	}

	if encodingOK {
		labels = append(labels, "✔️Encoding Resolved")
	}
	if filterOK {
		labels = append(labels, "✔️Filter Passed")
	}
	if fieldsOK {
		labels = append(labels, "✔️Fields Valid")
	}

	return labels
}

func isType(err error, tpl error) bool {
	if errors.Is(err, tpl) {
		return true
	}
	if reflect.TypeOf(err) == reflect.TypeOf(tpl) {
		return true
	}
	if wrapped, ok := err.(interface{ Unwrap() error }); ok {
		return isType(wrapped.Unwrap(), tpl)
	}
	return false
}
