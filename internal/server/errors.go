package server

import "errors"

var ErrServer = errors.New("control server error")
