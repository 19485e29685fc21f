package parser

import "errors"

// ErrMalformedPacket signals that a line does not follow the <name>:<value>|<type>[|#<tags>] grammar
var ErrMalformedPacket = errors.New("malformed metric packet")
