package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	goStats "github.com/MrEthical07/goStats"
	"github.com/MrEthical07/goStats/metrics/export/text"
	"github.com/MrEthical07/goStats/session"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	var (
		sessions    = flag.Int("sessions", 10000, "number of sessions to seed")
		concurrency = flag.Int("concurrency", 64, "number of concurrent workers")
		ops         = flag.Int("ops", 100000, "operations per phase (load + backup)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "gss", "session key prefix")
		unitFlag    = flag.String("unit", "us", "duration unit for probes: ns, us, ms or s")
		nonSticky   = flag.Bool("non-sticky", false, "lock sessions between load and backup")
		asyncBuffer = flag.Int("async-buffer", 0, "queue size for asynchronous backups; 0 writes synchronously")
	)
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	if *sessions <= 0 || *concurrency <= 0 || *ops <= 0 {
		log.Error().Msg("sessions, concurrency, and ops must be > 0")
		os.Exit(2)
	}
	unit, err := goStats.ParseTimeUnit(*unitFlag)
	if err != nil {
		log.Error().Err(err).Msg("invalid -unit")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to start miniredis")
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		log.Info().Str("addr", addr).Msg("using miniredis")
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		log.Info().Str("addr", addr).Msg("using redis")
	}
	defer cleanup()

	stats, err := goStats.New().WithEnabled(true).WithUnit(unit).Build()
	if err != nil {
		log.Fatal().Err(err).Msg("stats build")
	}
	store := session.NewStore(client, stats,
		session.WithPrefix(*prefix),
		session.WithNonSticky(*nonSticky),
		session.WithAsyncBackup(session.AsyncConfig{Enabled: *asyncBuffer > 0, BufferSize: *asyncBuffer}),
	)

	ids := make([]string, *sessions)
	log.Info().Int("sessions", *sessions).Msg("seeding")
	startSeed := time.Now()
	for i := range ids {
		sess := buildSession(i)
		ids[i] = sess.ID
		if err := store.Backup(ctx, sess, 24*time.Hour); err != nil {
			log.Fatal().Err(err).Msg("seed backup failed")
		}
	}
	log.Info().Dur("elapsed", time.Since(startSeed).Round(time.Millisecond)).Msg("seeded")

	loadStats := runPhase(ids, *ops, *concurrency, 7919, func(id string) error {
		sess, err := store.Load(ctx, id)
		if err != nil {
			store.TrackRequest(session.RequestOutcome{})
			return err
		}
		store.Release(ctx, id)
		store.TrackRequest(session.RequestOutcome{Session: sess, SessionAccessed: true})
		return nil
	})
	backupStats := runPhase(ids, *ops, *concurrency, 6151, func(id string) error {
		sess, err := store.Load(ctx, id)
		if err != nil {
			return err
		}
		sess.Set("hits", []byte(strconv.FormatInt(sess.LastAccessedAt.UnixNano(), 10)))
		err = store.Backup(ctx, sess, 24*time.Hour)
		store.TrackRequest(session.RequestOutcome{Session: sess, SessionAccessed: true, AttributesAccessed: true, Modified: true})
		return err
	})

	store.Close()
	if dropped := store.DroppedBackups(); dropped > 0 {
		log.Warn().Uint64("dropped", dropped).Msg("async backups dropped")
	}

	fmt.Println("---- results ----")
	printStats("load", loadStats)
	printStats("load+backup", backupStats)
	fmt.Println("---- statistics ----")
	if err := text.Write(os.Stdout, stats.Snapshot()); err != nil {
		log.Error().Err(err).Msg("write statistics")
	}
}

func runPhase(ids []string, ops, concurrency int, seed int64, op func(id string) error) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*seed))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				id := ids[r.Intn(len(ids))]
				t0 := time.Now()
				err := op(id)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	return samples[(len(samples)-1)*p/100]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}

func buildSession(i int) *session.Session {
	sess := session.NewSession(time.Hour)
	sess.Set("user", []byte("u-"+strconv.Itoa(i)))
	sess.Set("cart", make([]byte, 64+i%512))
	return sess
}
