// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "errors"

var (
	ErrSecretsDoNotMatch = errors.New("master secrets do not match")
	ErrEmptyInput        = errors.New("input must not be empty")
	ErrWeakSecret        = errors.New("secret does not satisfy the password policy")
)
