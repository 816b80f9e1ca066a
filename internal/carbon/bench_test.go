package carbon

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// maxLatencyMs is the local scoring budget for a single product.
const maxLatencyMs = 100

func BenchmarkMaterialsEstimator(b *testing.B) {
	e := NewMaterialsEstimator(DefaultFactors())
	p := sampleProduct()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Estimate(p)
	}
}

func BenchmarkTransportEstimator(b *testing.B) {
	e := NewTransportEstimator(DefaultFactors())
	p := sampleProduct()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Estimate(p)
	}
}

func BenchmarkLocalManufacturingEstimator(b *testing.B) {
	e := NewLocalManufacturingEstimator(DefaultFactors())
	p := sampleProduct()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Estimate(p)
	}
}

func BenchmarkComputeProduct(b *testing.B) {
	calc := NewCalculator(DefaultFactors(), nil, zerolog.Nop())
	p := sampleProduct()
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = calc.ComputeProduct(ctx, p, false)
	}
}

func BenchmarkDescribe(b *testing.B) {
	calc := NewCalculator(DefaultFactors(), nil, zerolog.Nop())
	p := sampleProduct()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		calc.Describe(p)
	}
}

func BenchmarkParseFactors(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := ParseFactors(defaultFactorsYAML); err != nil {
			b.Fatal(err)
		}
	}
}

// TestLatencyRequirement_ComputeProduct checks local scoring stays within budget.
func TestLatencyRequirement_ComputeProduct(t *testing.T) {
	calc := NewCalculator(DefaultFactors(), nil, zerolog.Nop())

	start := time.Now()
	if _, err := calc.ComputeProduct(context.Background(), sampleProduct(), false); err != nil {
		t.Fatalf("ComputeProduct: %v", err)
	}
	elapsed := time.Since(start)

	if elapsed.Milliseconds() > maxLatencyMs {
		t.Errorf("ComputeProduct took %v, exceeds %dms requirement", elapsed, maxLatencyMs)
	}
}

// TestLatencyRequirement_DefaultFactors checks the embedded tables load quickly.
func TestLatencyRequirement_DefaultFactors(t *testing.T) {
	start := time.Now()
	f := DefaultFactors()
	elapsed := time.Since(start)

	if f == nil {
		t.Fatal("DefaultFactors returned nil")
	}
	if elapsed.Milliseconds() > maxLatencyMs {
		t.Errorf("DefaultFactors took %v, exceeds %dms requirement", elapsed, maxLatencyMs)
	}
}

// TestConcurrentLatency checks a shared Calculator under concurrent load.
func TestConcurrentLatency(t *testing.T) {
	const goroutines = 150
	calc := NewCalculator(DefaultFactors(), nil, zerolog.Nop())

	var wg sync.WaitGroup
	errs := make(chan error, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := sampleProduct()
			p.ID = fmt.Sprintf("p-%d", i)
			p.Weight = float64(50 + i)

			start := time.Now()
			if _, err := calc.ComputeProduct(context.Background(), p, false); err != nil {
				errs <- err
				return
			}
			if time.Since(start).Milliseconds() > maxLatencyMs {
				errs <- fmt.Errorf("product %s exceeded latency under concurrent load", p.ID)
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
