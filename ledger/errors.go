// Copyright (c) 2025 The OpenStake developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import "errors"

// Error kinds reported by ledger operations. Every precondition violation
// aborts the whole operation with no partial state change; callers can match
// the kind with errors.Is.
var (
	// ErrUnauthorized caller is not the contract owner.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInsufficientBalance account token balance below the requested amount.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrStakeNotFound no stake record exists for the account.
	ErrStakeNotFound = errors.New("stake not found")

	// ErrUnstakeForbidden closing before half the declared period has elapsed.
	ErrUnstakeForbidden = errors.New("unstake forbidden")

	// ErrAlreadyStaked the account already has an open stake.
	ErrAlreadyStaked = errors.New("already staked")

	// ErrInvalidAmount amount or period out of bounds.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrRewardCalculation zero or negative pending reward at claim time.
	ErrRewardCalculation = errors.New("reward calculation")

	// ErrInvalidTokenContract the token gateway metadata probe failed.
	ErrInvalidTokenContract = errors.New("invalid token contract")

	// ErrTransferFailed the token gateway rejected a transfer or query.
	ErrTransferFailed = errors.New("transfer failed")
)
