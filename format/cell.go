// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package format

import (
	"fmt"

	"github.com/golangee/dataform/jsonval"
)

// anyToJSON bridges syntax.CellParser's "string -> any" contract (spec.md
// §4.1) onto the jsonval model JSFormat builds. The default CellParser
// only ever returns nil or string; a caller-supplied one may also return
// bool/float64/int for numeric coercion, which is why this is a type
// switch rather than a single case.
func anyToJSON(v any) *jsonval.Value {
	switch t := v.(type) {
	case nil:
		return jsonval.Null_()
	case string:
		return jsonval.NewString(t)
	case bool:
		return jsonval.NewBool(t)
	case float64:
		return jsonval.NewNumber(t)
	case float32:
		return jsonval.NewNumber(float64(t))
	case int:
		return jsonval.NewNumber(float64(t))
	case int64:
		return jsonval.NewNumber(float64(t))
	default:
		return jsonval.NewString(fmt.Sprint(v))
	}
}
