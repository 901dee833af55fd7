// Package otp generates short numeric one-time passcodes.
//
// Codes are drawn from crypto/rand with each digit chosen independently, so
// leading zeros are as likely as any other digit. The plaintext code is meant
// to be handed to the user exactly once; callers store only a hash.
package otp
