package logging

import "testing"

import "go.uber.org/zap"
import "go.viam.com/test"

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("smells", true)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, logger.Desugar().Core().Enabled(zap.DebugLevel), test.ShouldBeTrue)

	logger, err = NewLogger("smells", false)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, logger.Desugar().Core().Enabled(zap.DebugLevel), test.ShouldBeFalse)
}

func TestObservedTestLogger(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	logger.Infow("iteration", "i", 1)
	logger.Debug("detail")
	test.That(t, logs.Len(), test.ShouldEqual, 2)
	test.That(t, logs.FilterMessage("iteration").All()[0].ContextMap()["i"], test.ShouldEqual, int64(1))
}
