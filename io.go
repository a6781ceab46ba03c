package sentnet

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// Registries of constructors, keyed by TypeString. They are filled by the
// init functions of the layers, costfuncs, and optimizers subpackages, so
// loading a Network from file requires those packages to have been imported.
var (
	layerRegistry        = make(map[string]func() Layer)
	costFunctionRegistry = make(map[string]func() CostFunction)
	optimizerRegistry    = make(map[string]func() Optimizer)
)

// RegisterLayer adds a Layer constructor to the registry used by Load. The
// name must be the TypeString of the constructed Layer, and must not already
// be taken.
func RegisterLayer(name string, f func() Layer) error {
	if f == nil {
		return ErrRegisterNilReturn
	} else if _, ok := layerRegistry[name]; ok {
		return errors.Errorf("Layer type %q is already registered", name)
	}

	layerRegistry[name] = f
	return nil
}

// RegisterCostFunction performs the same operation as RegisterLayer, for
// CostFunctions.
func RegisterCostFunction(name string, f func() CostFunction) error {
	if f == nil {
		return ErrRegisterNilReturn
	} else if _, ok := costFunctionRegistry[name]; ok {
		return errors.Errorf("CostFunction type %q is already registered", name)
	}

	costFunctionRegistry[name] = f
	return nil
}

// RegisterOptimizer performs the same operation as RegisterLayer, for
// Optimizers.
func RegisterOptimizer(name string, f func() Optimizer) error {
	if f == nil {
		return ErrRegisterNilReturn
	} else if _, ok := optimizerRegistry[name]; ok {
		return errors.Errorf("Optimizer type %q is already registered", name)
	}

	optimizerRegistry[name] = f
	return nil
}

type layerFile struct {
	Name string          `json:"name"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type netFile struct {
	Layers      []layerFile        `json:"layers"`
	Cost        string             `json:"cost"`
	Opt         string             `json:"optimizer,omitempty"`
	InShape     Shape              `json:"input_shape"`
	HyperParams map[string]float64 `json:"hyper_params,omitempty"`
	Iter        int                `json:"iterations"`
}

// constantHP backs the hyperparameters of a loaded Network. Checkpoints store
// each HyperParameter's value at save time, not its schedule; a re-loaded
// Network that should keep decaying needs its schedules re-added by hand.
type constantHP float64

func (c constantHP) Value(iter int) float64 {
	return float64(c)
}

func (c constantHP) TypeString() string {
	return "constant"
}

// Save writes the Network to a single JSON checkpoint file at path,
// overwriting whatever is there. The Network must be finalized.
func (net *Network) Save(path string) error {
	if net.stat < finalized {
		return ErrNetNotFinalized
	}

	nf := netFile{
		Cost:    net.cf.TypeString(),
		InShape: net.shapes[0],
		Iter:    net.longIter,
	}

	if net.opt != nil {
		nf.Opt = net.opt.TypeString()
	}

	if len(net.hyperParams) != 0 {
		nf.HyperParams = make(map[string]float64, len(net.hyperParams))
		for name, hp := range net.hyperParams {
			nf.HyperParams[name] = hp.Value(net.longIter)
		}
	}

	for i, l := range net.layers {
		data, err := json.Marshal(l)
		if err != nil {
			return errors.Wrapf(err, "Couldn't save Network: failed to encode layer %q", net.names[i])
		}

		nf.Layers = append(nf.Layers, layerFile{
			Name: net.names[i],
			Type: l.TypeString(),
			Data: data,
		})
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "Couldn't save Network: failed to create file %q", path)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	if err := enc.Encode(nf); err != nil {
		return errors.Wrapf(err, "Couldn't save Network: failed to encode JSON to file %q", path)
	}

	return nil
}

// Load reads a Network from a JSON checkpoint file written by Save. The
// resulting Network is finalized and ready for GetOutputs, Test, or further
// training.
//
// Load reconstructs Layers, the CostFunction, and the Optimizer through their
// registries; the subpackages defining them must have been imported.
func Load(path string) (*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Couldn't load Network: failed to open file %q", path)
	}
	defer f.Close()

	var nf netFile
	dec := json.NewDecoder(f)
	if err := dec.Decode(&nf); err != nil {
		return nil, errors.Wrapf(err, "Couldn't load Network: failed to decode JSON from file %q", path)
	}

	cfMake := costFunctionRegistry[nf.Cost]
	if cfMake == nil {
		return nil, errors.Wrapf(ErrRegisterWrongType, "Couldn't load Network: CostFunction %q", nf.Cost)
	}

	net := new(Network)

	if nf.Opt != "" {
		optMake := optimizerRegistry[nf.Opt]
		if optMake == nil {
			return nil, errors.Wrapf(ErrRegisterWrongType, "Couldn't load Network: Optimizer %q", nf.Opt)
		}
		net.Opt(optMake())
	}

	for name, v := range nf.HyperParams {
		net.AddHP(name, constantHP(v))
	}

	for _, lf := range nf.Layers {
		lMake := layerRegistry[lf.Type]
		if lMake == nil {
			return nil, errors.Wrapf(ErrRegisterWrongType, "Couldn't load Network: Layer %q", lf.Type)
		}

		l := lMake()
		if err := json.Unmarshal(lf.Data, l); err != nil {
			return nil, errors.Wrapf(err, "Couldn't load Network: failed to decode layer %q", lf.Name)
		}

		net.Add(lf.Name, l)
	}

	if net.Error() != nil {
		return nil, errors.Wrapf(net.Error(), "Couldn't load Network: reconstruction failed")
	}

	if err := net.Finalize(cfMake(), nf.InShape); err != nil {
		return nil, errors.Wrapf(err, "Couldn't load Network: finalizing failed")
	}

	net.longIter = nf.Iter
	return net, nil
}
