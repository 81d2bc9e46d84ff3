// Package value provides the scalar value and tuple types shared by every
// relalg package.
//
// This package contains type definitions and encodings only. All other
// internal packages import value; value imports nothing internal.
//
// Key design constraints:
//   - Values are a sealed interface: only Int, Real and Text implement it
//   - Every attribute has a Domain and a value's variant must match it exactly
//   - Text is NFC normalized at construction so equality is by code points
//   - Values are totally ordered (domain first, then value) so composite keys
//     can live in an ordered index
package value
