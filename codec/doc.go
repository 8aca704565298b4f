// Package codec bridges models to wire encodings. Each codec pairs a
// Marshal function (Dump plus encode, Unset fields always excluded) with an
// Unmarshal function (decode plus Load, so parse and validation errors keep
// their usual types).
package codec
