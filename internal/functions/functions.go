// Package functions exposes the callable surface consumed by a
// configuration-management evaluator: java_home(), generate_password([length])
// and sha512_salted_hash(password). Every function returns a string.
package functions

import (
	"fmt"
	"sort"

	"github.com/cspace-puppet/cspace-user/internal/java"
	"github.com/cspace-puppet/cspace-user/internal/password"
)

// ArgumentError reports a call with the wrong number of arguments
type ArgumentError struct {
	Function string
	Got      int
	Expected string
	Detail   string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s(): %s (got %d arguments but expected %s)", e.Function, e.Detail, e.Got, e.Expected)
}

// Function is a named callable with arity bounds. MaxArgs < 0 means unbounded.
type Function struct {
	Name    string
	Doc     string
	MinArgs int
	MaxArgs int
	Call    func(args []any) (string, error)
}

// Registry holds the functions available to callers
type Registry struct {
	functions map[string]Function
}

// NewRegistry registers the standard functions. resolver answers java_home()
// for family; generator backs both password functions.
func NewRegistry(resolver *java.Resolver, family java.OSFamily, generator *password.Generator) *Registry {
	r := &Registry{functions: make(map[string]Function)}

	r.Register(Function{
		Name:    "java_home",
		Doc:     "Returns the probable JAVA_HOME directory, or an empty string. Arguments are ignored.",
		MinArgs: 0,
		MaxArgs: -1,
		Call: func(args []any) (string, error) {
			return resolver.Resolve(family), nil
		},
	})

	r.Register(Function{
		Name:    "generate_password",
		Doc:     fmt.Sprintf("Returns a generated password of the requested length (minimum %d).", password.MinLength),
		MinArgs: 0,
		MaxArgs: 1,
		Call: func(args []any) (string, error) {
			var requested any
			if len(args) == 1 {
				requested = args[0]
			}
			return generator.Generate(password.ParseLength(requested))
		},
	})

	r.Register(Function{
		Name:    "sha512_salted_hash",
		Doc:     "Returns a crypt-generated, salted SHA-512 hash of a password string.",
		MinArgs: 1,
		MaxArgs: 1,
		Call: func(args []any) (string, error) {
			return generator.SaltedHash(args[0])
		},
	})

	return r
}

// Register adds or replaces fn
func (r *Registry) Register(fn Function) {
	r.functions[fn.Name] = fn
}

// Names lists registered function names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the function registered as name
func (r *Registry) Lookup(name string) (Function, bool) {
	fn, ok := r.functions[name]
	return fn, ok
}

// Call invokes name with args after checking its arity
func (r *Registry) Call(name string, args ...any) (string, error) {
	fn, ok := r.functions[name]
	if !ok {
		return "", fmt.Errorf("unknown function %q", name)
	}
	if err := fn.checkArity(len(args)); err != nil {
		return "", err
	}
	return fn.Call(args)
}

func (fn Function) checkArity(n int) error {
	switch {
	case fn.MinArgs == fn.MaxArgs && n != fn.MinArgs:
		return &ArgumentError{Function: fn.Name, Got: n, Expected: fmt.Sprint(fn.MinArgs), Detail: "Wrong number of arguments"}
	case fn.MaxArgs >= 0 && n > fn.MaxArgs:
		return &ArgumentError{Function: fn.Name, Got: n, Expected: fmt.Sprintf("%d or %d", fn.MinArgs, fn.MaxArgs), Detail: "Too many arguments"}
	case n < fn.MinArgs:
		return &ArgumentError{Function: fn.Name, Got: n, Expected: fmt.Sprintf("at least %d", fn.MinArgs), Detail: "Too few arguments"}
	}
	return nil
}
