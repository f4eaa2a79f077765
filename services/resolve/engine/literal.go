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
	"github.com/AleutianAI/argscan/services/resolve/ir"
	"github.com/AleutianAI/argscan/services/resolve/value"
)

// resolveLiteral parses a raw literal token according to its source
// language's lexical rules.
func resolveLiteral(lit ir.Literal) value.Value {
	switch lit.Kind {
	case ir.LitInt:
		n, ok := parseIntLiteral(lit.Lang, lit.Raw)
		if !ok {
			return value.Unresolved()
		}
		return value.Int(n)

	case ir.LitFloat:
		// A float with a zero fractional part carries the same static
		// information as the integer it equals; anything else has no
		// representation in the value model.
		n, ok := parseFloatAsInt(lit.Lang, lit.Raw)
		if !ok {
			return value.Unresolved()
		}
		return value.Int(n)

	case ir.LitStr:
		s, ok := decodeString(lit.Lang, lit.Raw)
		if !ok {
			return value.Unresolved()
		}
		return value.Str(s)

	case ir.LitBool:
		switch lit.Raw {
		case "true", "True":
			return value.Bool(true)
		case "false", "False":
			return value.Bool(false)
		default:
			return value.Unresolved()
		}

	default:
		return value.Unresolved()
	}
}
