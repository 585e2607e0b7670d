package runtime

import (
	"fmt"
	"reflect"
)

// invokeHelper calls the named zero-argument method on instance by
// reflection. The core never sees the user's state type at compile time
// — the annotation-processing front end only hands the generator a
// method *name* — so reflection is the bridge between the descriptor's
// HelperMethod.Name and an actual call.
//
// The method may return nothing or a single error value; any other
// signature is a programmer error reported as one.
func invokeHelper(instance interface{}, methodName string) error {
	v := reflect.ValueOf(instance)
	m := v.MethodByName(methodName)
	if !m.IsValid() {
		return fmt.Errorf("runtime: %T has no helper method %q", instance, methodName)
	}

	mt := m.Type()
	if mt.NumIn() != 0 {
		return fmt.Errorf("runtime: helper %q on %T must take no arguments", methodName, instance)
	}
	switch mt.NumOut() {
	case 0:
		m.Call(nil)
		return nil
	case 1:
		out := m.Call(nil)
		switch out[0].Kind() {
		case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice, reflect.UnsafePointer:
			if out[0].IsNil() {
				return nil
			}
		}
		err, ok := out[0].Interface().(error)
		if !ok {
			return fmt.Errorf("runtime: helper %q on %T must return error, not %s", methodName, instance, mt.Out(0))
		}
		return err
	default:
		return fmt.Errorf("runtime: helper %q on %T must return at most one value", methodName, instance)
	}
}
