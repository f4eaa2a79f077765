// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package engine

import (
	"math"

	"github.com/AleutianAI/argscan/services/resolve/ir"
	"github.com/AleutianAI/argscan/services/resolve/value"
)

// applyUnary applies a unary operator to a resolved operand. Operator
// and operand type must fit; any mismatch is Unresolved.
func applyUnary(op ir.UnaryOp, operand value.Value) value.Value {
	switch op {
	case ir.OpNeg:
		n, ok := operand.AsInt()
		if !ok {
			return value.Unresolved()
		}
		if n == math.MinInt64 {
			// Negation overflows int64.
			return value.Unresolved()
		}
		return value.Int(-n)

	case ir.OpPlus:
		n, ok := operand.AsInt()
		if !ok {
			return value.Unresolved()
		}
		return value.Int(n)

	case ir.OpBitNot:
		n, ok := operand.AsInt()
		if !ok {
			return value.Unresolved()
		}
		return value.Int(^n)

	case ir.OpNot:
		b, ok := operand.AsBool()
		if !ok {
			return value.Unresolved()
		}
		return value.Bool(!b)

	default:
		return value.Unresolved()
	}
}
