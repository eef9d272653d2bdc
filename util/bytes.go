// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package util

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
)

var ByteOrder binary.ByteOrder = binary.BigEndian

func ConcatBytes(srcs ...[]byte) []byte {
	buf := bytes.NewBuffer(nil)
	for _, src := range srcs {
		buf.Grow(len(src))
	}
	for _, src := range srcs {
		buf.Write(src)
	}
	return buf.Bytes()
}

func Uint32ToBytes(val uint32) []byte {
	b := make([]byte, 4)
	ByteOrder.PutUint32(b, val)
	return b
}

func Uint64ToBytes(val uint64) []byte {
	b := make([]byte, 8)
	ByteOrder.PutUint64(b, val)
	return b
}

func Base64String(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}
