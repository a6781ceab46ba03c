package sentnet

import (
	"math/rand"
	"strings"

	"github.com/pkg/errors"
)

// Add appends a Layer to the end of the Network's stack, with the given
// display name. Add returns the Network to allow chaining; errors are stored
// and returned by *Network.Error() (or panicked, if PanicErrors has been
// called), so that construction reads linearly.
//
// The name of each Layer must be unique, cannot be "", and cannot contain a
// double-quote (").
func (net *Network) Add(name string, l Layer) *Network {
	if net.err != nil {
		return net
	}

	if net.stat >= finalized {
		net.setError(ErrNetFinalized)
		return net
	} else if l == nil {
		net.setError(NilArgError{"Layer"})
		return net
	} else if name == "" {
		net.setError(errors.Errorf(`Layer name cannot be ""`))
		return net
	} else if strings.Contains(name, `"`) {
		net.setError(errors.Errorf("Layer name %s contains illegal character: \"", name))
		return net
	}

	for _, n := range net.names {
		if n == name {
			net.setError(errors.Errorf("Layer name %q is already taken", name))
			return net
		}
	}

	net.layers = append(net.layers, l)
	net.names = append(net.names, name)
	return net
}

// Opt sets the Optimizer used to adjust the weights of every ParamLayer in
// the Network. It must be called before Finalize if any Layer has weights.
func (net *Network) Opt(opt Optimizer) *Network {
	if opt == nil {
		net.setError(NilArgError{"Optimizer"})
		return net
	}

	net.opt = opt
	return net
}

// DefaultInit sets the Initializer applied to the weights of ParamLayers that
// have not been given one of their own.
func (net *Network) DefaultInit(init Initializer) *Network {
	if init == nil {
		net.setError(NilArgError{"Initializer"})
		return net
	}

	net.defaultInit = init
	return net
}

// AddHP registers a HyperParameter under the given name. The learning rate is
// a HyperParameter with name "learning-rate", and is required by Finalize.
func (net *Network) AddHP(name string, hp HyperParameter) *Network {
	if hp == nil {
		net.setError(NilArgError{"HyperParameter"})
		return net
	}

	if net.hyperParams == nil {
		net.hyperParams = make(map[string]HyperParameter)
	}

	if _, ok := net.hyperParams[name]; ok {
		net.setError(errors.Errorf("HyperParameter %q has already been added", name))
		return net
	}

	net.hyperParams[name] = hp
	return net
}

// HP returns the value of the named HyperParameter at the current iteration.
// If an unknown HyperParameter is requested, HP panics with ErrNoHP.
func (net *Network) HP(name string) float64 {
	hp := net.hyperParams[name]
	if hp == nil {
		panic(ErrNoHP)
	}

	return hp.Value(net.longIter)
}

// Finalize fixes the structure of the Network: it resolves the shape at every
// Layer boundary starting from the given input shape, allocates and
// initializes all weights, and attaches the CostFunction that training will
// minimize. After Finalize, no more Layers can be added.
//
// If an error is returned, the Network should be considered unusable.
func (net *Network) Finalize(cf CostFunction, in Shape) error {
	if net.err != nil {
		return net.err
	}

	if net.stat >= finalized {
		return net.fail(ErrNetFinalized)
	} else if cf == nil {
		return net.fail(NilArgError{"CostFunction"})
	} else if len(net.layers) == 0 {
		return net.fail(errors.Errorf("Can't finalize Network, it has no Layers"))
	} else if in.Steps < 1 || in.Features < 1 {
		return net.fail(errors.Errorf("Can't finalize Network, input shape is invalid (%d x %d)", in.Steps, in.Features))
	}

	if net.defaultInit == nil {
		net.defaultInit = defaultInitializer
	}

	net.shapes = make([]Shape, len(net.layers)+1)
	net.shapes[0] = in

	for i, l := range net.layers {
		out, err := l.OutShape(net.shapes[i])
		if err != nil {
			return net.fail(errors.Wrapf(err, "Resolving output shape of layer %q failed", net.names[i]))
		} else if out.Steps < 1 || out.Features < 1 {
			return net.fail(errors.Errorf("Output shape of layer %q is invalid (%d x %d)", net.names[i], out.Steps, out.Features))
		}

		if err := l.Finalize(net, net.shapes[i]); err != nil {
			return net.fail(errors.Wrapf(err, "Finalizing layer %q failed", net.names[i]))
		}

		net.shapes[i+1] = out
	}

	if net.hasParams() {
		if net.opt == nil {
			return net.fail(errors.Errorf("Network has adjustable Layers but no Optimizer"))
		} else if net.hyperParams["learning-rate"] == nil {
			return net.fail(errors.Errorf(`Network has adjustable Layers but no "learning-rate" HyperParameter`))
		}
	}

	net.cf = cf
	net.stat = finalized
	return nil
}

// fail records the error on the Network before returning it, so that later
// calls through *Network.Error() see it too.
func (net *Network) fail(err error) error {
	net.setError(err)
	return err
}

func (net *Network) hasParams() bool {
	for _, l := range net.layers {
		if p, ok := l.(ParamLayer); ok && p.NumParams() > 0 {
			return true
		}
	}

	return false
}

// defaultInitializer sets weights uniformly random in (-1/fanIn, 1/fanIn).
// It is duplicated from the initializers subpackage (instead of imported) to
// avoid a dependency cycle.
func defaultInitializer(ws []float64, fanIn, fanOut int) {
	bound := 1.0
	if fanIn > 0 {
		bound = 1.0 / float64(fanIn)
	}

	for i := range ws {
		ws[i] = bound * (2*rand.Float64() - 1)
	}
}
