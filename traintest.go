package sentnet

import (
	"github.com/pkg/errors"

	"gonum.org/v1/gonum/mat"
)

// Datum is a simple wrapper used to send samples to the Network.
type Datum struct {
	// Inputs is the input of the Network. Its dimensions must match the shape
	// the Network was finalized with.
	Inputs *mat.Dense

	// Outputs is the expected output of the Network, given the input.
	Outputs []float64
}

// Fits indicates whether or not a given Datum's dimensions match those of the
// Network, allowing it to be used for training or testing.
func (d Datum) Fits(net *Network) bool {
	if d.Inputs == nil {
		return false
	}

	r, c := d.Inputs.Dims()
	in := net.InputShape()
	return r == in.Steps && c == in.Features && len(d.Outputs) == net.OutputSize()
}

// DataSupplier is the primary method of providing datasets to the Network,
// either for training or testing.
type DataSupplier interface {
	// Get returns the next piece of data, given the current iteration.
	Get(iter int) (Datum, error)

	// BatchEnded returns whether or not the most recent batch has ended,
	// given the number of samples processed so far. To not use batching,
	// BatchEnded should always return true (effective mini-batch size of 1).
	//
	// BatchEnded will be called after the last Datum in the batch has been
	// retrieved and counted. It will not be called if the DataSupplier is
	// being used for testing.
	BatchEnded(iter int) bool

	// DoneTesting indicates whether or not the testing process has finished.
	// This will only be called if the DataSupplier is actually used for
	// providing testing data.
	DoneTesting(iter int) bool
}

// Result is a wrapper for sending back the progress of the training or
// testing.
type Result struct {
	// The iteration the result is being sent before
	Iteration int

	// Average cost, from the Network's CostFunction
	Cost float64

	// The fraction correct, as per IsCorrect() from TrainArgs: 0 → 1
	Correct float64

	// The result is either from a test or a status update
	IsTest bool
}

// TrainArgs is a proxy for the optional arguments to *Network.Train.
type TrainArgs struct {
	TrainData DataSupplier

	// TestData is the source of cross-validation data while training. This
	// can be nil if ShouldTest is also nil.
	TestData DataSupplier

	// ShouldTest indicates whether or not testing should be done before the
	// current iteration. ShouldTest can be left nil to represent an
	// unconditional false.
	ShouldTest func(iter int) bool

	// SendStatus indicates whether or not to send back general information
	// about the status of the training since the last time 'true' was
	// returned. SendStatus can be left nil to represent an unconditional
	// false.
	//
	// 'true' will be ignored on iteration 0.
	SendStatus func(iter int) bool

	// RunCondition will be called at each successive iteration to determine
	// if training should continue. Training will stop if 'false' is returned.
	RunCondition func(iter int) bool

	// IsCorrect returns whether or not the Network outputs are correct, given
	// the target outputs. In order, it is given: outputs; targets.
	//
	// The length of both provided slices is guaranteed to be equal.
	IsCorrect func(outs, targets []float64) bool

	// Update is how testing and status updates are returned. If both
	// ShouldTest and SendStatus are nil, then Update can also be left nil.
	Update func(r Result)
}

// Train runs the Network's main training loop: fetch a sample, run the
// forward pass, backpropagate the cost derivatives, and -- at the end of each
// mini-batch -- apply one optimizer step with the averaged gradients.
func (net *Network) Train(args TrainArgs) error {
	if net.stat < finalized {
		return ErrNetNotFinalized
	}

	// handle error cases and set defaults
	{
		if args.Update == nil {
			args.Update = func(r Result) {}
		}

		if args.TrainData == nil {
			return errors.Errorf("TrainData is nil")
		}

		if args.TestData == nil {
			if args.ShouldTest != nil {
				return errors.Errorf("TestData is nil but ShouldTest is not")
			}
			args.ShouldTest = func(iter int) bool { return false }
		} else if args.ShouldTest == nil {
			args.ShouldTest = func(iter int) bool { return false }
		}

		if args.SendStatus == nil {
			args.SendStatus = func(iter int) bool { return false }
		}

		if args.RunCondition == nil {
			return errors.Errorf("RunCondition is nil")
		}

		if args.IsCorrect == nil {
			args.IsCorrect = func(outs, targets []float64) bool { return false }
		}
	}

	net.iter = 0

	var statusCost, statusCorrect float64
	var statusSize int

	// number of samples whose gradients have been accumulated since the last
	// optimizer step
	var batchCount int

	for {
		if args.SendStatus(net.iter) && net.iter != 0 {
			args.Update(Result{
				Iteration: net.iter,
				Cost:      statusCost / float64(statusSize),
				Correct:   statusCorrect / float64(statusSize),
				IsTest:    false,
			})

			statusCost, statusCorrect = 0, 0
			statusSize = 0
		}

		if args.ShouldTest(net.iter) {
			cost, correct, err := net.Test(args.TestData, args.IsCorrect)
			if err != nil {
				return errors.Wrapf(err, "Testing on iteration %d failed", net.iter)
			}

			args.Update(Result{
				Iteration: net.iter,
				Cost:      cost,
				Correct:   correct,
				IsTest:    true,
			})
		}

		if !args.RunCondition(net.iter) {
			break
		}

		d, err := args.TrainData.Get(net.iter)
		if err != nil {
			return errors.Wrapf(err, "Failed to get training data on iteration %d", net.iter)
		} else if !d.Fits(net) {
			return errors.Errorf("Training data for iteration %d does not fit Network", net.iter)
		}

		outs, err := net.forwardPass(d.Inputs, true)
		if err != nil {
			return errors.Wrapf(err, "Failed to get Network outputs on iteration %d", net.iter)
		}

		cost := net.cf.Cost(outs, d.Outputs)
		correct := args.IsCorrect(outs, d.Outputs)

		if err := net.backwardPass(net.cf.Derivs(outs, d.Outputs)); err != nil {
			return errors.Wrapf(err, "Failed to get Network deltas on iteration %d", net.iter)
		}

		net.hasSavedChanges = true
		batchCount++

		statusCost += cost
		if correct {
			statusCorrect += 1.0
		}
		statusSize++

		net.iter++
		net.longIter++

		if args.TrainData.BatchEnded(net.iter) {
			if err := net.adjust(batchCount); err != nil {
				return errors.Wrapf(err, "Failed to adjust Network on iteration %d", net.iter)
			}
			batchCount = 0
		}
	}

	// finish up before returning
	if net.hasSavedChanges && batchCount > 0 {
		if err := net.adjust(batchCount); err != nil {
			return errors.Wrapf(err, "Failed to adjust Network with final partial batch")
		}
	}

	return nil
}

// Test runs every sample the DataSupplier provides (until DoneTesting)
// through the Network without training, and returns the average cost and the
// fraction of samples isCorrect reported as correct.
func (net *Network) Test(data DataSupplier, isCorrect func([]float64, []float64) bool) (float64, float64, error) {
	if net.stat < finalized {
		return 0, 0, ErrNetNotFinalized
	} else if data == nil {
		return 0, 0, NilArgError{"DataSupplier"}
	} else if isCorrect == nil {
		isCorrect = func(outs, targets []float64) bool { return false }
	}

	var avgCost, avgCorrect float64
	var testSize int

	for !data.DoneTesting(testSize) {
		d, err := data.Get(testSize)
		if err != nil {
			return 0, 0, errors.Wrapf(err, "Failed to get test sample %d", testSize)
		} else if !d.Fits(net) {
			return 0, 0, errors.Errorf("Test sample %d does not fit Network dimensions", testSize)
		}

		outs, err := net.forwardPass(d.Inputs, false)
		if err != nil {
			return 0, 0, errors.Wrapf(err, "Failed to get Network outputs with test sample %d", testSize)
		}

		avgCost += net.cf.Cost(outs, d.Outputs)
		if isCorrect(outs, d.Outputs) {
			avgCorrect += 1
		}

		testSize++
	}

	if testSize != 0 {
		avgCost /= float64(testSize)
		avgCorrect /= float64(testSize)
	}

	return avgCost, avgCorrect, nil
}

type internalSupplier struct {
	get         func(int) (Datum, error)
	batchEnded  func(int) bool
	doneTesting func(int) bool
}

func (s internalSupplier) Get(iter int) (Datum, error) {
	return s.get(iter)
}

func (s internalSupplier) BatchEnded(iter int) bool {
	return s.batchEnded(iter)
}

func (s internalSupplier) DoneTesting(iter int) bool {
	return s.doneTesting(iter)
}

// Data converts a slice of samples to a DataSupplier, which can be used for
// training or testing. Iteration wraps around the end of the dataset, so the
// same DataSupplier serves any number of epochs.
//
// N.B.: Data does not check that the samples fit a certain Network; that will
// be done during training/testing.
func Data(samples []Datum, batchSize int) (DataSupplier, error) {
	if len(samples) == 0 {
		return nil, errors.Errorf("dataset has no data (len == 0)")
	} else if batchSize < 1 {
		return nil, errors.Errorf("batch size must be >= 1 (%d)", batchSize)
	}

	return internalSupplier{
		get: func(iter int) (Datum, error) {
			return samples[iter%len(samples)], nil
		},
		batchEnded: EndEvery(batchSize),
		doneTesting: func(iter int) bool {
			return iter >= len(samples)
		},
	}, nil
}
