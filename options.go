// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package observable

import "github.com/joeycumines/logiface"

// subjectOptions holds configuration options for Subject creation.
type subjectOptions struct {
	logger *logiface.Logger[logiface.Event]
}

// --- Subject Options ---

// SubjectOption configures a Subject instance.
type SubjectOption interface {
	applySubject(*subjectOptions) error
}

// subjectOptionImpl implements SubjectOption.
type subjectOptionImpl struct {
	applySubjectFunc func(*subjectOptions) error
}

func (o *subjectOptionImpl) applySubject(opts *subjectOptions) error {
	return o.applySubjectFunc(opts)
}

// WithLogger attaches a structured logger to the Subject.
// Lifecycle transitions (deferred disposal, teardown, queue clears) are
// logged at debug level. A nil logger disables logging, which is also the
// default.
func WithLogger(logger *logiface.Logger[logiface.Event]) SubjectOption {
	return &subjectOptionImpl{func(opts *subjectOptions) error {
		opts.logger = logger
		return nil
	}}
}

// resolveSubjectOptions applies SubjectOption instances to subjectOptions.
func resolveSubjectOptions(opts []SubjectOption) (*subjectOptions, error) {
	cfg := &subjectOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue // Skip nil options gracefully
		}
		if err := opt.applySubject(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
