// Package repository holds errors shared by the storage backends.
package repository

import "errors"

// ErrBookingOverlap 预订时间段与已有预订重叠
var ErrBookingOverlap = errors.New("booking overlaps an existing booking")

// ErrSessionNotFound 会话不存在或已过期
var ErrSessionNotFound = errors.New("session not found")
