package layers

import (
	"runtime"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	sn "github.com/mwelland/sentnet"
	"github.com/mwelland/sentnet/utils"
)

type conv struct {
	Filters int  `json:"filters"`
	Kernel  int  `json:"kernel"`
	In      int  `json:"in,omitempty"`
	Relu    bool `json:"relu,omitempty"`

	// Weights is indexed [filter][kernel offset][input feature], flattened
	// row-major; Biases has one value per filter.
	Weights []float64 `json:"weights,omitempty"`
	Biases  []float64 `json:"biases,omitempty"`

	init    sn.Initializer
	wGrads  []float64
	bGrads  []float64
	lastIn  *mat.Dense
	lastPre *mat.Dense
}

// Conv1D returns a 1-D convolution over the time axis with the given number
// of filters and kernel width, using same-padding: inputs of shape (T, in)
// produce outputs of shape (T, filters). Padding positions read as zero.
//
// The result of Conv1D implements sentnet.ParamLayer.
func Conv1D(filters, kernel int) *conv {
	return &conv{Filters: filters, Kernel: kernel}
}

// ReLU fuses a rectified linear activation onto the convolution outputs,
// returning the same layer.
func (c *conv) ReLU() *conv {
	c.Relu = true
	return c
}

func (c *conv) TypeString() string {
	return "conv1d"
}

// Init overrides the Initializer for the layer's filters.
func (c *conv) Init(init sn.Initializer) {
	c.init = init
}

func (c *conv) OutShape(in sn.Shape) (sn.Shape, error) {
	if c.Filters < 1 {
		return sn.Shape{}, errors.Errorf("Conv1D must have filters >= 1 (%d)", c.Filters)
	} else if c.Kernel < 1 || c.Kernel%2 == 0 {
		return sn.Shape{}, errors.Errorf("Conv1D kernel width must be positive and odd (%d)", c.Kernel)
	}

	return sn.Shape{Steps: in.Steps, Features: c.Filters}, nil
}

func (c *conv) Finalize(net *sn.Network, in sn.Shape) error {
	if c.In != 0 && c.In != in.Features {
		return errors.Errorf("Conv1D was built for %d input features, input has %d", c.In, in.Features)
	}
	c.In = in.Features

	size := c.Filters * c.Kernel * c.In
	if len(c.Weights) != size {
		c.Weights = make([]float64, size)

		init := c.init
		if init == nil {
			init = net.DefaultInitializer()
		}
		init(c.Weights, c.Kernel*c.In, c.Filters)
	}

	if len(c.Biases) != c.Filters {
		c.Biases = make([]float64, c.Filters)
	}

	c.wGrads = make([]float64, size)
	c.bGrads = make([]float64, c.Filters)
	return nil
}

func (c *conv) Forward(x *mat.Dense, training bool) (*mat.Dense, error) {
	steps, _ := x.Dims()
	pad := (c.Kernel - 1) / 2

	pre := mat.NewDense(steps, c.Filters, nil)

	f := func(t int) {
		for fi := 0; fi < c.Filters; fi++ {
			sum := c.Biases[fi]

			for k := 0; k < c.Kernel; k++ {
				tt := t + k - pad
				if tt < 0 || tt >= steps {
					continue
				}

				base := (fi*c.Kernel + k) * c.In
				for in := 0; in < c.In; in++ {
					sum += c.Weights[base+in] * x.At(tt, in)
				}
			}

			pre.Set(t, fi, sum)
		}
	}

	opsPerThread, threadsPerCPU := runtime.NumCPU()*2, 1
	utils.MultiThread(0, steps, f, opsPerThread, threadsPerCPU)

	c.lastIn = x
	c.lastPre = pre

	if !c.Relu {
		return pre, nil
	}

	y := mat.NewDense(steps, c.Filters, nil)
	for t := 0; t < steps; t++ {
		for fi := 0; fi < c.Filters; fi++ {
			if v := pre.At(t, fi); v > 0 {
				y.Set(t, fi, v)
			}
		}
	}

	return y, nil
}

func (c *conv) Backward(grad *mat.Dense) (*mat.Dense, error) {
	if c.lastIn == nil {
		return nil, errors.Errorf("Backward called before Forward")
	}

	steps, _ := grad.Dims()
	pad := (c.Kernel - 1) / 2

	// mask the incoming gradient through the fused activation first
	g := grad
	if c.Relu {
		g = mat.NewDense(steps, c.Filters, nil)
		for t := 0; t < steps; t++ {
			for fi := 0; fi < c.Filters; fi++ {
				if c.lastPre.At(t, fi) > 0 {
					g.Set(t, fi, grad.At(t, fi))
				}
			}
		}
	}

	// weight and bias gradients, split across threads by filter
	f := func(fi int) {
		for t := 0; t < steps; t++ {
			gv := g.At(t, fi)
			if gv == 0 {
				continue
			}

			c.bGrads[fi] += gv

			for k := 0; k < c.Kernel; k++ {
				tt := t + k - pad
				if tt < 0 || tt >= steps {
					continue
				}

				base := (fi*c.Kernel + k) * c.In
				for in := 0; in < c.In; in++ {
					c.wGrads[base+in] += gv * c.lastIn.At(tt, in)
				}
			}
		}
	}

	opsPerThread, threadsPerCPU := 1, 1
	utils.MultiThread(0, c.Filters, f, opsPerThread, threadsPerCPU)

	dx := mat.NewDense(steps, c.In, nil)
	for t := 0; t < steps; t++ {
		for fi := 0; fi < c.Filters; fi++ {
			gv := g.At(t, fi)
			if gv == 0 {
				continue
			}

			for k := 0; k < c.Kernel; k++ {
				tt := t + k - pad
				if tt < 0 || tt >= steps {
					continue
				}

				base := (fi*c.Kernel + k) * c.In
				for in := 0; in < c.In; in++ {
					dx.Set(tt, in, dx.At(tt, in)+gv*c.Weights[base+in])
				}
			}
		}
	}

	return dx, nil
}

func (c *conv) NumParams() int {
	return c.Filters*c.Kernel*c.In + c.Filters
}

func (c *conv) Adjust(opt sn.Optimizer, learningRate, scale float64) error {
	{
		grad := func(i int) float64 {
			return scale * c.wGrads[i]
		}
		add := func(i int, v float64) {
			c.Weights[i] += v
		}

		if err := opt.Run(c, "weights", len(c.Weights), grad, add, learningRate); err != nil {
			return errors.Wrapf(err, "Running optimizer on filters failed")
		}
	}

	{
		grad := func(i int) float64 {
			return scale * c.bGrads[i]
		}
		add := func(i int, v float64) {
			c.Biases[i] += v
		}

		if err := opt.Run(c, "biases", len(c.Biases), grad, add, learningRate); err != nil {
			return errors.Wrapf(err, "Running optimizer on biases failed")
		}
	}

	return nil
}

func (c *conv) ZeroGrads() {
	for i := range c.wGrads {
		c.wGrads[i] = 0
	}
	for i := range c.bGrads {
		c.bGrads[i] = 0
	}
}
