package char_bpe

import (
	"strings"
	"testing"
	"time"
)

var benchCorpus = strings.Repeat(sampleCorpus+" ", 200)

func BenchmarkTrain(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Train(benchCorpus, 400)
	}
}

func BenchmarkCodec_Encode(b *testing.B) {
	b.StopTimer()
	codec := Train(benchCorpus, 400).NewCodec()
	b.StartTimer()
	start := time.Now()
	tokenCt := 0
	for i := 0; i < b.N; i++ {
		tokenCt += len(codec.Encode(benchCorpus))
	}
	b.StopTimer()
	elapsed := time.Since(start)
	b.ReportMetric(float64(tokenCt)/elapsed.Seconds(), "tokens/sec")
	b.ReportMetric(float64(codec.LruHits()), "lru_hits")
}

func BenchmarkCodec_EncodeUncached(b *testing.B) {
	b.StopTimer()
	codec := Train(benchCorpus, 400).NewCodecWithCache(0)
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		codec.Encode(benchCorpus)
	}
}

func BenchmarkCodec_Decode(b *testing.B) {
	b.StopTimer()
	codec := Train(benchCorpus, 400).NewCodec()
	encoded := codec.Encode(benchCorpus)
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		codec.Decode(encoded)
	}
	b.ReportMetric(float64(len(encoded)), "tokens")
}
