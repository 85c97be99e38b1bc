/*
Package dnsbench contains the benchmark engine for measuring recursive DNS
resolvers over UDP. A run is described by the Benchmark struct: the two-phase
discovery prefilter (Benchmark.RunDiscovery), NXDOMAIN interception probing
(Benchmark.Characterize) and the main benchmark (Benchmark.Run) all operate
on it. Benchmark.Run returns raw per-resolver result buckets which are scored
and ranked by the ranking package.
*/
package dnsbench
