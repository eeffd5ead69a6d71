// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mosek

import (
	"fmt"
	"strings"
)

const (
	douParamPrefix = "MSK_DPAR_"
	intParamPrefix = "MSK_IPAR_"
	strParamPrefix = "MSK_SPAR_"
)

// Params carries user-supplied solver parameters. A key is either a native
// parameter name carrying one of the three class prefixes, or a typed
// DParam/IParam/SParam value; the value must match the key's class.
// Anything else is a fatal configuration error, raised before any variable
// is declared so a rejected parameter set leaves no partial model.
type Params map[any]any

func (p Params) apply(task Task) error {
	for key, val := range p {
		switch k := key.(type) {
		case string:
			if err := applyNamed(task, strings.TrimSpace(k), val); err != nil {
				return err
			}
		case DParam:
			f, ok := asFloat(val)
			if !ok {
				return fmt.Errorf("solver parameter %v wants a double value, got %T", k, val)
			}
			if err := task.PutDouParam(k, f); err != nil {
				return err
			}
		case IParam:
			i, ok := val.(int)
			if !ok {
				return fmt.Errorf("solver parameter %v wants an integer value, got %T", k, val)
			}
			if err := task.PutIntParam(k, i); err != nil {
				return err
			}
		case SParam:
			s, ok := val.(string)
			if !ok {
				return fmt.Errorf("solver parameter %v wants a string value, got %T", k, val)
			}
			if err := task.PutStrParam(k, s); err != nil {
				return err
			}
		default:
			return fmt.Errorf("invalid solver parameter %v", key)
		}
	}
	return nil
}

func applyNamed(task Task, name string, val any) error {
	switch {
	case strings.HasPrefix(name, douParamPrefix):
		f, ok := asFloat(val)
		if !ok {
			return fmt.Errorf("solver parameter %q wants a double value, got %T", name, val)
		}
		return task.PutNaDouParam(name, f)
	case strings.HasPrefix(name, intParamPrefix):
		i, ok := val.(int)
		if !ok {
			return fmt.Errorf("solver parameter %q wants an integer value, got %T", name, val)
		}
		return task.PutNaIntParam(name, i)
	case strings.HasPrefix(name, strParamPrefix):
		s, ok := val.(string)
		if !ok {
			return fmt.Errorf("solver parameter %q wants a string value, got %T", name, val)
		}
		return task.PutNaStrParam(name, s)
	}
	return fmt.Errorf("invalid solver parameter %q", name)
}

func asFloat(val any) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}
