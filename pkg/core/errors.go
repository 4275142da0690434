package core

import "errors"

var ErrInvalidConfiguration = errors.New("invalid wallet configuration")
var ErrNotApprover = errors.New("caller is not an approver")
var ErrTxNotFound = errors.New("transaction not found")
var ErrAlreadyExecuted = errors.New("transaction already executed")
var ErrAlreadyConfirmed = errors.New("transaction already confirmed")
