package dataset

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/go-sif/sparkling"
	"github.com/go-sif/sparkling/internal/iterator"
	"github.com/go-sif/sparkling/internal/util"
	"github.com/go-sif/sparkling/logging"
)

const noUpstream = -1

// A node is one immutable step in a Dataset graph
type node struct {
	id          int64
	upstream    int64 // the id of the upstream node, or noUpstream for roots
	nodeType    sparkling.NodeType
	description string
	name        string
	partitions  []sparkling.Partition
	partitioner sparkling.Partitioner

	mapper                sparkling.PartitionMapper // for MapPartitionsNodeType
	preservesPartitioning bool
	sampler               sparkling.SamplePredicate // for SampleNodeType
	seed                  int64                     // for SampleNodeType

	err error // set when the node could not be built; every use of it fails
}

func createRootNode(nodeType sparkling.NodeType, description string, partitions []sparkling.Partition, partitioner sparkling.Partitioner) *node {
	return &node{
		upstream:    noUpstream,
		nodeType:    nodeType,
		description: description,
		partitions:  partitions,
		partitioner: partitioner,
	}
}

// derive creates a node downstream of this one, sharing its Partitions
func (n *node) derive(nodeType sparkling.NodeType, description string, preservesPartitioning bool) *node {
	child := &node{
		upstream:              n.id,
		nodeType:              nodeType,
		description:           description,
		partitions:            n.partitions,
		preservesPartitioning: preservesPartitioning,
	}
	if preservesPartitioning {
		child.partitioner = n.partitioner
	}
	return child
}

// compute produces a lazy Iterator over the elements of a Partition at this node
func (e *Engine) compute(n *node, p sparkling.Partition, tc sparkling.TaskContext) (sparkling.Iterator, error) {
	if n.err != nil {
		return nil, n.err
	}
	if err := tc.Err(); err != nil {
		return nil, err
	}
	if p.Index() < 0 || p.Index() >= len(n.partitions) {
		return nil, fmt.Errorf("Partition %d does not belong to dataset %d", p.Index(), n.id)
	}
	if n.upstream == noUpstream {
		return p.Load(tc)
	}
	switch n.nodeType {
	case sparkling.MapPartitionsNodeType:
		upstream, err := e.computeUpstream(n, p, tc)
		if err != nil {
			return nil, err
		}
		return n.mapper.MapPartition(tc, p.Index(), upstream)
	case sparkling.SampleNodeType:
		upstream, err := e.computeUpstream(n, p, tc)
		if err != nil {
			return nil, err
		}
		rng := rand.New(rand.NewSource(n.seed + int64(p.Index())))
		keep := util.SafeSampleOperation(n.sampler.Keep)
		return iterator.Filter(upstream, func(elem interface{}) (bool, error) {
			return keep(rng.Float64(), elem)
		}), nil
	case sparkling.PersistNodeType:
		key := sparkling.CacheKey{DatasetID: n.id, PartitionIndex: p.Index()}
		elems, cached, err := e.conf.Cache.GetOrCompute(key, func() ([]interface{}, error) {
			logging.Debug(e.conf.Logger, "materializing persisted partition", "dataset", n.id, "partition", p.Index(), "job", tc.JobID())
			upstream, err := e.computeUpstream(n, p, tc)
			if err != nil {
				return nil, err
			}
			return iterator.Collect(upstream)
		})
		if err != nil {
			return nil, err
		}
		if cached {
			logging.Trace(e.conf.Logger, "serving persisted partition from cache", "dataset", n.id, "partition", p.Index())
		}
		return iterator.FromSlice(elems), nil
	default:
		return nil, fmt.Errorf("Unknown node type %s", n.nodeType)
	}
}

func (e *Engine) computeUpstream(n *node, p sparkling.Partition, tc sparkling.TaskContext) (sparkling.Iterator, error) {
	upstream, err := e.lookup(n.upstream)
	if err != nil {
		return nil, err
	}
	return e.compute(upstream, p, tc.Child())
}

// lineage describes a node and its upstream chain, one node per line
func (e *Engine) lineage(n *node) string {
	var res strings.Builder
	depth := 0
	for current := n; current != nil; depth++ {
		label := current.description
		if current.name != "" {
			label = fmt.Sprintf("%s [%s]", current.name, label)
		}
		fmt.Fprintf(&res, "%s(%d) %s #%d %s\n", strings.Repeat("  ", depth), len(current.partitions), current.nodeType, current.id, label)
		if current.upstream == noUpstream {
			break
		}
		next, err := e.lookup(current.upstream)
		if err != nil {
			fmt.Fprintf(&res, "%s<missing #%d>\n", strings.Repeat("  ", depth+1), current.upstream)
			break
		}
		current = next
	}
	return res.String()
}
