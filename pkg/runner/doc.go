/*
Package runner executes many inputs against one program and keeps the results.

A Runner fans a batch out over a bounded pool of goroutines. The program is
shared read-only; every input gets its own run, its own ID and, if a store is
configured, its own persisted record. Outcomes come back in input order.

# Usage

	r := runner.New(eng,
		runner.WithStore(memory.NewStore()),
		runner.WithConcurrency(8),
	)
	outcomes, err := r.RunBatch(ctx, prog, []string{"01#01", "0#1"})
	if err != nil {
		log.Fatal(err)
	}
	sink := runner.NewTextSink(os.Stdout)
	for _, o := range outcomes {
		_ = sink.Write(o)
	}
*/
package runner
