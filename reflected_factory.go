package partwire

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"

	"github.com/partwire/partwire/option"
)

// ReflectedFactory converts a typed constructor function into a FactoryFunc
// that resolves each parameter from the resolver before calling it.
//
// The constructor must return the instance, or the instance and an error.
func ReflectedFactory(factoryMethod any) (FactoryFunc, error) {
	t := reflect.TypeOf(factoryMethod)
	if t == nil || t.Kind() != reflect.Func {
		return nil, fmt.Errorf("factory method must be a function")
	}
	if t.NumOut() != 1 && t.NumOut() != 2 {
		return nil, errors.New("factory method must either return the instance and an error, or just the instance")
	}
	if t.NumOut() == 2 {
		if t.Out(1) != ErrorType {
			return nil, errors.New("if factory method returns two elements, it must return an error as the second element")
		}
	}

	fnName := runtime.FuncForPC(reflect.ValueOf(factoryMethod).Pointer()).Name()
	factory := reflect.ValueOf(factoryMethod)

	return func(r *Resolver) (any, error) {
		args := make([]reflect.Value, t.NumIn())
		for i := range args {
			paramTyp := t.In(i)
			definition := NewImportDefinition(NewContract("", paramTyp), ExactlyOne)
			val, _, err := r.resolveOne(definition)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve parameter %d of factory method %s:\n\t%w", i, fnName, err)
			}
			if val == nil {
				args[i] = reflect.Zero(paramTyp)
			} else {
				args[i] = reflect.ValueOf(val)
			}
		}

		// panic recovery, as `Call` can panic if the factory method has a panic
		var results []reflect.Value
		var callErr error

		func() {
			defer func() {
				if rec := recover(); rec != nil {
					callErr = fmt.Errorf("panic calling factory method %s: %v", fnName, rec)
				}
			}()
			results = factory.Call(args)
		}()

		if callErr != nil {
			return nil, callErr
		}

		if len(results) == 2 && !results[1].IsNil() {
			return nil, results[1].Interface().(error)
		}

		return results[0].Interface(), nil
	}, nil
}

// MustReflectedFactory panics if the factory method is not convertible.
func MustReflectedFactory(factoryMethod any) FactoryFunc {
	factory, err := ReflectedFactory(factoryMethod)
	if err != nil {
		panic(fmt.Sprintf("failed to build reflected factory for %T:\n\t%v", factoryMethod, err))
	}
	return factory
}

// RegisterReflected registers a constructor function, deriving the exported
// contract type from its first return value.
func RegisterReflected(p *FactoryExportProvider, factoryMethod any, opts ...option.Option[ExportOptions]) error {
	factory, err := ReflectedFactory(factoryMethod)
	if err != nil {
		return err
	}
	return p.Register(reflect.TypeOf(factoryMethod).Out(0), factory, opts...)
}

// RegisterReflectedSingleton is the singleton variant of RegisterReflected:
// the constructor is invoked at most once.
func RegisterReflectedSingleton(p *FactoryExportProvider, factoryMethod any, opts ...option.Option[ExportOptions]) error {
	factory, err := ReflectedFactory(factoryMethod)
	if err != nil {
		return err
	}
	return p.RegisterInstance(reflect.TypeOf(factoryMethod).Out(0), factory, opts...)
}
