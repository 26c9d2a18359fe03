// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/constants"
)

const (
	contentTypeMsgpack = "application/msgpack"
)

// encodeEvent serializes a message for the wire and returns its content type
func encodeEvent(encoding string, message any) ([]byte, string, error) {
	switch encoding {
	case constants.EventEncodingMsgpack:
		data, err := msgpack.Marshal(message)
		return data, contentTypeMsgpack, err
	case constants.EventEncodingJSON, "":
		data, err := json.Marshal(message)
		return data, constants.ContentTypeJSON, err
	default:
		return nil, "", fmt.Errorf("unsupported event encoding %q", encoding)
	}
}
