// cmd/bench drives the in-process cluster directly with concurrent SET,
// GET, and DEL operations across a range of value sizes, reporting
// min/avg/max/stddev latency per operation — the same measurement this
// store's original implementation used to characterize itself.
//
// Usage:
//
//	./bench --nodes 5 --ops 1000 --clients 10
package main

import (
	"flag"
	"fmt"
	"math"
	"sync"
	"time"

	"distributed-kvstore/internal/cluster"
)

func main() {
	numNodes := flag.Int("nodes", 5, "number of in-process nodes")
	vnodes := flag.Int("vnodes", 100, "virtual nodes per physical node")
	replicas := flag.Int("replicas", 3, "replication factor")
	numOps := flag.Int("ops", 1000, "total operations per phase (set/get/del)")
	numClients := flag.Int("clients", 10, "concurrent goroutines issuing operations")
	flag.Parse()

	c := cluster.New(*vnodes, *replicas)

	setupStart := time.Now()
	for i := 0; i < *numNodes; i++ {
		c.AddNode(fmt.Sprintf("node%d", i))
	}
	fmt.Printf("cluster setup: %d nodes in %s\n\n", *numNodes, time.Since(setupStart))

	valueSizes := []int{100, 1000, 10000}

	for _, size := range valueSizes {
		fmt.Printf("=== value size: %d bytes ===\n", size)
		value := make([]byte, size)
		for i := range value {
			value[i] = 'x'
		}

		opsPerClient := *numOps / *numClients

		setTimes := runConcurrent(*numClients, opsPerClient, func(key string) {
			c.Set(key, value, nil)
		})
		getTimes := runConcurrent(*numClients, opsPerClient, func(key string) {
			c.Get(key)
		})
		delTimes := runConcurrent(*numClients, opsPerClient, func(key string) {
			c.Del(key)
		})

		report("SET", setTimes)
		report("GET", getTimes)
		report("DEL", delTimes)
		fmt.Println()
	}
}

// runConcurrent spreads numClients*opsPerClient operations across
// numClients goroutines, each touching a disjoint slice of keys, and
// returns the per-operation latency in nanoseconds.
func runConcurrent(numClients, opsPerClient int, op func(key string)) []int64 {
	total := numClients * opsPerClient
	times := make([]int64, total)

	var wg sync.WaitGroup
	wg.Add(numClients)
	for cIdx := 0; cIdx < numClients; cIdx++ {
		go func(start int) {
			defer wg.Done()
			for i := start; i < start+opsPerClient; i++ {
				key := fmt.Sprintf("key%d", i)
				begin := time.Now()
				op(key)
				times[i] = time.Since(begin).Nanoseconds()
			}
		}(cIdx * opsPerClient)
	}
	wg.Wait()
	return times
}

func report(label string, times []int64) {
	min, avg, max, stddev := stats(times)
	fmt.Printf("%-3s - Min: %d, Average: %d, Max: %d, Std.Dev: %.2f\n", label, min, avg, max, stddev)
}

func stats(times []int64) (min, avg, max int64, stddev float64) {
	if len(times) == 0 {
		return 0, 0, 0, 0
	}
	min, max = times[0], times[0]
	var sum int64
	for _, t := range times {
		sum += t
		if t < min {
			min = t
		}
		if t > max {
			max = t
		}
	}
	avg = sum / int64(len(times))

	var variance float64
	for _, t := range times {
		diff := float64(t) - float64(avg)
		variance += diff * diff
	}
	variance /= float64(len(times))
	stddev = math.Sqrt(variance)
	return
}
