package viz

import (
	"context"
	"fmt"

	"github.com/goccy/go-graphviz/cgraph"

	"github.com/harperreed/donorbase/contacts"
	"github.com/harperreed/donorbase/donors"
	"github.com/harperreed/donorbase/models"
)

// GenerateDonorGraph draws one donor's campaigns and the other donors who gave to them.
func (g *GraphGenerator) GenerateDonorGraph(ctx context.Context, contactID string) (string, error) {
	focus, err := contacts.Get(g.contacts, contactID)
	if err != nil {
		return "", err
	}
	info := models.EnsureDonorInfo(&focus)
	focus.DonorInfo = &info

	return g.render(ctx, focus.FullName(), func(graph *cgraph.Graph) error {
		focusNode, err := createDonorNode(graph, &focus)
		if err != nil {
			return err
		}
		focusNode.SetShape("doubleoctagon")

		campaigns := make(map[string]*cgraph.Node)
		for _, c := range sortedCampaignTotals(info.Donations) {
			node, err := createCampaignNode(graph, c.name)
			if err != nil {
				return err
			}
			campaigns[c.name] = node

			edge, err := graph.CreateEdgeByName("gave_"+c.name, focusNode, node)
			if err != nil {
				return fmt.Errorf("failed to create edge: %w", err)
			}
			edge.SetLabel(formatAmount(c.amount))
		}

		for _, peer := range donors.Profiles(g.contacts) {
			if peer.ID == focus.ID {
				continue
			}
			var peerNode *cgraph.Node
			for _, c := range sortedCampaignTotals(peer.DonorInfo.Donations) {
				campaignNode, shared := campaigns[c.name]
				if !shared || c.name == donors.NoCampaign {
					continue
				}
				if peerNode == nil {
					if peerNode, err = createDonorNode(graph, &peer); err != nil {
						return err
					}
				}
				edge, err := graph.CreateEdgeByName(fmt.Sprintf("peer_%s_%s", peer.ID, c.name), peerNode, campaignNode)
				if err != nil {
					return fmt.Errorf("failed to create edge: %w", err)
				}
				edge.SetStyle("dashed")
			}
		}
		return nil
	})
}
