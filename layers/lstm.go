package layers

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	sn "github.com/mwelland/sentnet"
)

type lstm struct {
	Units int `json:"units"`
	In    int `json:"in,omitempty"`

	DropRate    float64 `json:"dropout,omitempty"`
	RecDropRate float64 `json:"recurrent_dropout,omitempty"`

	// input weights, each Units x In row-major
	Wi []float64 `json:"wi,omitempty"`
	Wf []float64 `json:"wf,omitempty"`
	Wg []float64 `json:"wg,omitempty"`
	Wo []float64 `json:"wo,omitempty"`

	// recurrent weights, each Units x Units row-major
	Ui []float64 `json:"ui,omitempty"`
	Uf []float64 `json:"uf,omitempty"`
	Ug []float64 `json:"ug,omitempty"`
	Uo []float64 `json:"uo,omitempty"`

	// biases, each one value per unit
	Bi []float64 `json:"bi,omitempty"`
	Bf []float64 `json:"bf,omitempty"`
	Bg []float64 `json:"bg,omitempty"`
	Bo []float64 `json:"bo,omitempty"`

	init  sn.Initializer
	grads map[string][]float64

	// caches from the most recent Forward, for backpropagation through time
	xs    [][]float64 // inputs as used by the gates (dropout applied)
	mhs   [][]float64 // previous hidden states as used by the gates
	cs    [][]float64 // cell states; cs[0] is the zero initial state
	tcs   [][]float64 // tanh of each cell state
	gi    [][]float64 // gate activations per step
	gf    [][]float64
	gg    [][]float64
	go_   [][]float64
	inM   []float64 // per-sequence dropout masks, nil outside training
	recM  []float64
	steps int
}

// LSTM returns a standard long short-term memory layer with the given number
// of memory units. It consumes the whole sequence and emits only the final
// hidden state: inputs of shape (T, in) produce outputs of shape (1, units).
//
// For the gate equations, consult: https://www.youtube.com/watch?v=WCUNPb-5EYI,
// at 20:31.
//
// The result of LSTM implements sentnet.ParamLayer.
func LSTM(units int) *lstm {
	return &lstm{Units: units}
}

// Dropout sets the rate at which gate inputs are dropped, with one mask drawn
// per sequence and shared by all time steps. Returns the same layer.
func (l *lstm) Dropout(rate float64) *lstm {
	l.DropRate = rate
	return l
}

// RecurrentDropout sets the rate at which the recurrent hidden-state inputs
// to the gates are dropped, with one mask per sequence. Returns the same
// layer.
func (l *lstm) RecurrentDropout(rate float64) *lstm {
	l.RecDropRate = rate
	return l
}

func (l *lstm) TypeString() string {
	return "lstm"
}

// Init overrides the Initializer for the input and recurrent weights.
func (l *lstm) Init(init sn.Initializer) {
	l.init = init
}

func (l *lstm) OutShape(in sn.Shape) (sn.Shape, error) {
	if l.Units < 1 {
		return sn.Shape{}, errors.Errorf("LSTM must have units >= 1 (%d)", l.Units)
	} else if l.DropRate < 0 || l.DropRate >= 1 {
		return sn.Shape{}, errors.Errorf("LSTM dropout rate must be in [0, 1) (%g)", l.DropRate)
	} else if l.RecDropRate < 0 || l.RecDropRate >= 1 {
		return sn.Shape{}, errors.Errorf("LSTM recurrent dropout rate must be in [0, 1) (%g)", l.RecDropRate)
	}

	return sn.Shape{Steps: 1, Features: l.Units}, nil
}

func (l *lstm) Finalize(net *sn.Network, in sn.Shape) error {
	if l.In != 0 && l.In != in.Features {
		return errors.Errorf("LSTM was built for %d input features, input has %d", l.In, in.Features)
	}
	l.In = in.Features

	init := l.init
	if init == nil {
		init = net.DefaultInitializer()
	}

	ws := func(existing []float64, size, fanIn int) []float64 {
		if len(existing) == size {
			return existing
		}

		fresh := make([]float64, size)
		init(fresh, fanIn, l.Units)
		return fresh
	}

	l.Wi = ws(l.Wi, l.Units*l.In, l.In)
	l.Wf = ws(l.Wf, l.Units*l.In, l.In)
	l.Wg = ws(l.Wg, l.Units*l.In, l.In)
	l.Wo = ws(l.Wo, l.Units*l.In, l.In)

	l.Ui = ws(l.Ui, l.Units*l.Units, l.Units)
	l.Uf = ws(l.Uf, l.Units*l.Units, l.Units)
	l.Ug = ws(l.Ug, l.Units*l.Units, l.Units)
	l.Uo = ws(l.Uo, l.Units*l.Units, l.Units)

	if len(l.Bi) != l.Units {
		l.Bi = make([]float64, l.Units)
		l.Bg = make([]float64, l.Units)
		l.Bo = make([]float64, l.Units)

		// starting with open forget gates keeps early gradients flowing
		// through long sequences
		l.Bf = make([]float64, l.Units)
		for u := range l.Bf {
			l.Bf[u] = 1
		}
	}

	l.grads = map[string][]float64{
		"wi": make([]float64, l.Units*l.In), "wf": make([]float64, l.Units*l.In),
		"wg": make([]float64, l.Units*l.In), "wo": make([]float64, l.Units*l.In),
		"ui": make([]float64, l.Units*l.Units), "uf": make([]float64, l.Units*l.Units),
		"ug": make([]float64, l.Units*l.Units), "uo": make([]float64, l.Units*l.Units),
		"bi": make([]float64, l.Units), "bf": make([]float64, l.Units),
		"bg": make([]float64, l.Units), "bo": make([]float64, l.Units),
	}

	return nil
}

// dropMask draws one inverted-dropout mask of the given size, or nil when the
// rate is zero.
func dropMask(size int, rate float64) []float64 {
	if rate == 0 {
		return nil
	}

	keep := 1 / (1 - rate)
	mask := make([]float64, size)
	for i := range mask {
		if rand.Float64() >= rate {
			mask[i] = keep
		}
	}

	return mask
}

func (l *lstm) Forward(x *mat.Dense, training bool) (*mat.Dense, error) {
	steps, _ := x.Dims()
	if steps < 1 {
		return nil, errors.Errorf("LSTM input must have at least 1 step")
	}

	l.steps = steps
	l.inM, l.recM = nil, nil
	if training {
		l.inM = dropMask(l.In, l.DropRate)
		l.recM = dropMask(l.Units, l.RecDropRate)
	}

	l.xs = make([][]float64, steps)
	l.mhs = make([][]float64, steps)
	l.cs = make([][]float64, steps+1)
	l.tcs = make([][]float64, steps)
	l.gi = make([][]float64, steps)
	l.gf = make([][]float64, steps)
	l.gg = make([][]float64, steps)
	l.go_ = make([][]float64, steps)

	l.cs[0] = make([]float64, l.Units)
	h := make([]float64, l.Units)

	for t := 0; t < steps; t++ {
		xt := make([]float64, l.In)
		for c := 0; c < l.In; c++ {
			xt[c] = x.At(t, c)
			if l.inM != nil {
				xt[c] *= l.inM[c]
			}
		}

		mh := make([]float64, l.Units)
		copy(mh, h)
		if l.recM != nil {
			for j := range mh {
				mh[j] *= l.recM[j]
			}
		}

		i := make([]float64, l.Units)
		f := make([]float64, l.Units)
		g := make([]float64, l.Units)
		o := make([]float64, l.Units)
		c := make([]float64, l.Units)
		tc := make([]float64, l.Units)
		hNext := make([]float64, l.Units)

		for u := 0; u < l.Units; u++ {
			ai, af, ag, ao := l.Bi[u], l.Bf[u], l.Bg[u], l.Bo[u]

			base := u * l.In
			for in := 0; in < l.In; in++ {
				ai += l.Wi[base+in] * xt[in]
				af += l.Wf[base+in] * xt[in]
				ag += l.Wg[base+in] * xt[in]
				ao += l.Wo[base+in] * xt[in]
			}

			baseU := u * l.Units
			for j := 0; j < l.Units; j++ {
				ai += l.Ui[baseU+j] * mh[j]
				af += l.Uf[baseU+j] * mh[j]
				ag += l.Ug[baseU+j] * mh[j]
				ao += l.Uo[baseU+j] * mh[j]
			}

			i[u] = sigmoidOf(ai)
			f[u] = sigmoidOf(af)
			g[u] = math.Tanh(ag)
			o[u] = sigmoidOf(ao)

			c[u] = f[u]*l.cs[t][u] + i[u]*g[u]
			tc[u] = math.Tanh(c[u])
			hNext[u] = o[u] * tc[u]
		}

		l.xs[t] = xt
		l.mhs[t] = mh
		l.cs[t+1] = c
		l.tcs[t] = tc
		l.gi[t], l.gf[t], l.gg[t], l.go_[t] = i, f, g, o
		h = hNext
	}

	return mat.NewDense(1, l.Units, h), nil
}

func (l *lstm) Backward(grad *mat.Dense) (*mat.Dense, error) {
	if l.xs == nil {
		return nil, errors.Errorf("Backward called before Forward")
	}

	dh := make([]float64, l.Units)
	for u := 0; u < l.Units; u++ {
		dh[u] = grad.At(0, u)
	}
	dc := make([]float64, l.Units)

	dx := mat.NewDense(l.steps, l.In, nil)

	dai := make([]float64, l.Units)
	daf := make([]float64, l.Units)
	dag := make([]float64, l.Units)
	dao := make([]float64, l.Units)

	for t := l.steps - 1; t >= 0; t-- {
		i, f, g, o := l.gi[t], l.gf[t], l.gg[t], l.go_[t]
		tc, cprev := l.tcs[t], l.cs[t]

		for u := 0; u < l.Units; u++ {
			do := dh[u] * tc[u]
			dct := dh[u]*o[u]*(1-tc[u]*tc[u]) + dc[u]

			di := dct * g[u]
			dg := dct * i[u]
			df := dct * cprev[u]

			dai[u] = di * i[u] * (1 - i[u])
			daf[u] = df * f[u] * (1 - f[u])
			dag[u] = dg * (1 - g[u]*g[u])
			dao[u] = do * o[u] * (1 - o[u])

			dc[u] = dct * f[u]
		}

		// parameter gradients
		for u := 0; u < l.Units; u++ {
			base := u * l.In
			for in := 0; in < l.In; in++ {
				l.grads["wi"][base+in] += dai[u] * l.xs[t][in]
				l.grads["wf"][base+in] += daf[u] * l.xs[t][in]
				l.grads["wg"][base+in] += dag[u] * l.xs[t][in]
				l.grads["wo"][base+in] += dao[u] * l.xs[t][in]
			}

			baseU := u * l.Units
			for j := 0; j < l.Units; j++ {
				l.grads["ui"][baseU+j] += dai[u] * l.mhs[t][j]
				l.grads["uf"][baseU+j] += daf[u] * l.mhs[t][j]
				l.grads["ug"][baseU+j] += dag[u] * l.mhs[t][j]
				l.grads["uo"][baseU+j] += dao[u] * l.mhs[t][j]
			}

			l.grads["bi"][u] += dai[u]
			l.grads["bf"][u] += daf[u]
			l.grads["bg"][u] += dag[u]
			l.grads["bo"][u] += dao[u]
		}

		// input deltas
		for in := 0; in < l.In; in++ {
			var sum float64
			for u := 0; u < l.Units; u++ {
				base := u * l.In
				sum += dai[u]*l.Wi[base+in] + daf[u]*l.Wf[base+in] +
					dag[u]*l.Wg[base+in] + dao[u]*l.Wo[base+in]
			}

			if l.inM != nil {
				sum *= l.inM[in]
			}

			dx.Set(t, in, sum)
		}

		// deltas of the previous hidden state
		dhPrev := make([]float64, l.Units)
		for j := 0; j < l.Units; j++ {
			var sum float64
			for u := 0; u < l.Units; u++ {
				baseU := u * l.Units
				sum += dai[u]*l.Ui[baseU+j] + daf[u]*l.Uf[baseU+j] +
					dag[u]*l.Ug[baseU+j] + dao[u]*l.Uo[baseU+j]
			}

			if l.recM != nil {
				sum *= l.recM[j]
			}

			dhPrev[j] = sum
		}

		dh = dhPrev
	}

	return dx, nil
}

func (l *lstm) NumParams() int {
	return 4 * (l.Units*l.In + l.Units*l.Units + l.Units)
}

func (l *lstm) Adjust(opt sn.Optimizer, learningRate, scale float64) error {
	groups := []struct {
		name string
		ws   []float64
	}{
		{"wi", l.Wi}, {"wf", l.Wf}, {"wg", l.Wg}, {"wo", l.Wo},
		{"ui", l.Ui}, {"uf", l.Uf}, {"ug", l.Ug}, {"uo", l.Uo},
		{"bi", l.Bi}, {"bf", l.Bf}, {"bg", l.Bg}, {"bo", l.Bo},
	}

	for _, gr := range groups {
		gs := l.grads[gr.name]
		ws := gr.ws

		grad := func(i int) float64 {
			return scale * gs[i]
		}
		add := func(i int, v float64) {
			ws[i] += v
		}

		if err := opt.Run(l, gr.name, len(ws), grad, add, learningRate); err != nil {
			return errors.Wrapf(err, "Running optimizer on group %q failed", gr.name)
		}
	}

	return nil
}

func (l *lstm) ZeroGrads() {
	for _, gs := range l.grads {
		for i := range gs {
			gs[i] = 0
		}
	}
}
