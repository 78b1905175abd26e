package otel

import (
	"context"
	"errors"
	"fmt"

	goStats "github.com/MrEthical07/goStats"
	"github.com/MrEthical07/goStats/metrics/export/internaldefs"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	ErrNilMeter  = errors.New("nil meter")
	ErrNilSource = errors.New("nil stats source")
)

type statsSource interface {
	Snapshot() goStats.StatsSnapshot
}

type observedCounter struct {
	id         goStats.CounterID
	instrument metric.Int64ObservableCounter
}

type observedProbe struct {
	id         goStats.ProbeID
	isDuration bool
	count      metric.Int64ObservableCounter
	min        metric.Int64ObservableGauge
	max        metric.Int64ObservableGauge
	avg        metric.Float64ObservableGauge
}

type Exporter struct {
	source       statsSource
	registration metric.Registration
	counters     []observedCounter
	probes       []observedProbe
}

func NewExporter(meter metric.Meter, source statsSource) (*Exporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	exporter := &Exporter{
		source:   source,
		counters: make([]observedCounter, 0, len(internaldefs.CounterDefs)),
		probes:   make([]observedProbe, 0, len(internaldefs.ProbeDefs)),
	}

	observables := make([]metric.Observable, 0, len(internaldefs.CounterDefs)+len(internaldefs.ProbeDefs)*4)

	for _, def := range internaldefs.CounterDefs {
		ins, err := meter.Int64ObservableCounter(def.Name, metric.WithDescription(def.Help))
		if err != nil {
			return nil, fmt.Errorf("create observable counter %s: %w", def.Name, err)
		}
		exporter.counters = append(exporter.counters, observedCounter{id: def.ID, instrument: ins})
		observables = append(observables, ins)
	}

	for _, def := range internaldefs.ProbeDefs {
		p := observedProbe{id: def.ID, isDuration: def.IsDuration}

		var err error
		if p.count, err = meter.Int64ObservableCounter(def.Name+"_count", metric.WithDescription(def.Help+" Number of observations.")); err != nil {
			return nil, fmt.Errorf("create probe count %s: %w", def.Name, err)
		}
		if p.min, err = meter.Int64ObservableGauge(def.Name+"_min", metric.WithDescription(def.Help+" Minimum observed value.")); err != nil {
			return nil, fmt.Errorf("create probe min %s: %w", def.Name, err)
		}
		if p.max, err = meter.Int64ObservableGauge(def.Name+"_max", metric.WithDescription(def.Help+" Maximum observed value.")); err != nil {
			return nil, fmt.Errorf("create probe max %s: %w", def.Name, err)
		}
		if p.avg, err = meter.Float64ObservableGauge(def.Name+"_avg", metric.WithDescription(def.Help+" Mean of observed values.")); err != nil {
			return nil, fmt.Errorf("create probe avg %s: %w", def.Name, err)
		}

		exporter.probes = append(exporter.probes, p)
		observables = append(observables, p.count, p.min, p.max, p.avg)
	}

	registration, err := meter.RegisterCallback(exporter.observe, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}

	exporter.registration = registration
	return exporter, nil
}

func (e *Exporter) observe(_ context.Context, observer metric.Observer) error {
	snapshot := e.source.Snapshot()

	for _, c := range e.counters {
		v, ok := snapshot.Counters[c.id]
		if !ok {
			continue
		}
		observer.ObserveInt64(c.instrument, int64(v))
	}

	unitAttr := metric.WithAttributes(attribute.String("unit", snapshot.Unit.String()))
	for _, p := range e.probes {
		s, ok := snapshot.Probes[p.id]
		if !ok {
			continue
		}
		var opts []metric.ObserveOption
		if p.isDuration {
			opts = append(opts, unitAttr)
		}
		observer.ObserveInt64(p.count, int64(s.Count), opts...)
		if s.Empty() {
			continue
		}
		observer.ObserveInt64(p.min, s.Min, opts...)
		observer.ObserveInt64(p.max, s.Max, opts...)
		observer.ObserveFloat64(p.avg, s.Avg, opts...)
	}
	return nil
}

func (e *Exporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
