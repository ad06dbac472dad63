// Copyright (c) 2026 Pitchside. All rights reserved.
// Author: engineering@pitchside.io

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// passwordHashCost is the bcrypt work factor. bcrypt.DefaultCost (10) is the
// floor; we pin the value explicitly so a library default change cannot
// silently weaken stored hashes.
const passwordHashCost = 12

// HashPassword hashes a plain-text password using the bcrypt algorithm.
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), passwordHashCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version.
//
// bcrypt's comparison is constant-time over the full digest; it never
// short-circuits on a byte-prefix mismatch.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}

// dummyHash is a structurally valid bcrypt digest at the production work
// factor, used when a credential check has no stored hash to compare against.
const dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// BurnPasswordCheck performs a full-cost bcrypt comparison against a
// throwaway digest and discards the result. Callers use it on the
// no-such-account path so it takes the same work as a failed comparison
// against a real hash.
func BurnPasswordCheck(plainTextPassword string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(plainTextPassword))
}
