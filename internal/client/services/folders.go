package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/sharesaver/internal/client/client"
	"github.com/dmitrijs2005/sharesaver/internal/client/models"
	"github.com/dmitrijs2005/sharesaver/internal/client/repositories/history"
	"github.com/dmitrijs2005/sharesaver/internal/client/repositories/rootfolders"
	"github.com/dmitrijs2005/sharesaver/internal/common"
	"github.com/dmitrijs2005/sharesaver/internal/logging"
	"github.com/dmitrijs2005/sharesaver/internal/metrics"
)

// DefaultAnchorFolderName is the top-level folder searched first when an id
// has to be turned back into a path.
const DefaultAnchorFolderName = "我的转存"

// FolderService navigates the remote folder tree of one account.
// Every method works on the session passed in.
type FolderService interface {
	// ListChildren returns the direct children of folderID, or an empty list
	// when the listing fails.
	ListChildren(ctx context.Context, c client.Client, accountID, folderID models.ID) []models.FolderNode

	// Flatten expands roots depth-first into slash-joined paths. It has no
	// depth bound; a cyclic remote tree makes it recurse without end.
	Flatten(ctx context.Context, c client.Client, accountID models.ID, roots []models.FolderNode) []models.ResolvedFolder

	// MatchByName returns the first folder, in traversal order, whose path
	// contains name case-insensitively. common.ErrorNotFound when none does.
	MatchByName(ctx context.Context, c client.Client, accountID models.ID, name string) (models.ResolvedFolder, error)

	// ResolveNameByID turns a folder id into a human path. It never fails:
	// unknown ids resolve to common.UncategorizedFolderName.
	ResolveNameByID(ctx context.Context, c client.Client, accountID, folderID models.ID) string

	// FindPath searches below originID for targetID, listing at most
	// maxDepth levels and never listing the same folder twice.
	FindPath(ctx context.Context, c client.Client, accountID, originID models.ID, originPath string, targetID models.ID, maxDepth int) models.LookupResult
}

type FolderOptions struct {
	// AnchorName is the cached top-level folder searched before the root.
	AnchorName string
	// MaxDepth bounds FindPath. Defaults to 10.
	MaxDepth int
}

type folderService struct {
	history history.Repository
	roots   rootfolders.Repository
	opts    FolderOptions
	log     logging.Logger
	metrics *metrics.Metrics
}

func NewFolderService(historyRepo history.Repository, rootsRepo rootfolders.Repository, opts FolderOptions, log logging.Logger, m *metrics.Metrics) FolderService {
	if opts.AnchorName == "" {
		opts.AnchorName = DefaultAnchorFolderName
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = 10
	}
	if log == nil {
		log = logging.Discard()
	}
	return &folderService{history: historyRepo, roots: rootsRepo, opts: opts, log: log, metrics: m}
}

func (s *folderService) ListChildren(ctx context.Context, c client.Client, accountID, folderID models.ID) []models.FolderNode {
	nodes, err := s.fetchChildren(ctx, c, accountID, folderID)
	if err != nil {
		s.log.Warn(ctx, "folder listing failed, treating as empty", "folder_id", folderID, "error", err)
		return nil
	}
	return nodes
}

func (s *folderService) fetchChildren(ctx context.Context, c client.Client, accountID, folderID models.ID) ([]models.FolderNode, error) {
	nodes, err := c.ListFolders(ctx, accountID, folderID)
	s.metrics.FolderListed(err == nil)
	return nodes, err
}

func (s *folderService) Flatten(ctx context.Context, c client.Client, accountID models.ID, roots []models.FolderNode) []models.ResolvedFolder {
	var out []models.ResolvedFolder
	s.flatten(ctx, c, accountID, roots, "", &out)
	return out
}

func (s *folderService) flatten(ctx context.Context, c client.Client, accountID models.ID, nodes []models.FolderNode, prefix string, out *[]models.ResolvedFolder) {
	for _, n := range nodes {
		path := joinPath(prefix, n.Name)
		*out = append(*out, models.ResolvedFolder{Path: path, ID: n.ID})
		s.flatten(ctx, c, accountID, s.ListChildren(ctx, c, accountID, n.ID), path, out)
	}
}

func (s *folderService) MatchByName(ctx context.Context, c client.Client, accountID models.ID, name string) (models.ResolvedFolder, error) {
	roots := s.ListChildren(ctx, c, accountID, common.RootFolderID)
	all := s.Flatten(ctx, c, accountID, roots)

	needle := strings.ToLower(name)
	var matches []models.ResolvedFolder
	for _, f := range all {
		if strings.Contains(strings.ToLower(f.Path), needle) {
			matches = append(matches, f)
		}
	}

	if len(matches) == 0 {
		return models.ResolvedFolder{}, common.ErrorNotFound
	}
	if len(matches) > 1 {
		paths := make([]string, 0, len(matches))
		for _, m := range matches {
			paths = append(paths, m.Path)
		}
		s.log.Warn(ctx, "several folders match, using the first", "name", name, "matches", paths)
	}
	return matches[0], nil
}

func (s *folderService) ResolveNameByID(ctx context.Context, c client.Client, accountID, folderID models.ID) string {
	name, err := s.history.FindFolderName(ctx, folderID.String())
	if err == nil {
		s.log.Debug(ctx, "folder name found in history", "folder_id", folderID, "name", name)
		return name
	}
	if !errors.Is(err, common.ErrorNotFound) {
		s.log.Warn(ctx, "history lookup failed", "folder_id", folderID, "error", err)
	}

	if anchor, ok := s.anchor(ctx, c, accountID); ok {
		if models.ID(anchor.FolderID) == folderID {
			return anchor.Name
		}
		res := s.FindPath(ctx, c, accountID, models.ID(anchor.FolderID), anchor.Name, folderID, s.opts.MaxDepth)
		if res.Status == models.LookupFound {
			return res.Path
		}
		s.log.Debug(ctx, "folder not below anchor", "folder_id", folderID, "anchor", anchor.Name, "status", res.Status)
	}

	res := s.FindPath(ctx, c, accountID, common.RootFolderID, "", folderID, s.opts.MaxDepth)
	if res.Status == models.LookupFound {
		return res.Path
	}

	s.log.Warn(ctx, "folder id not resolved", "folder_id", folderID, "status", res.Status)
	return common.UncategorizedFolderName
}

// anchor returns the cached anchor folder, filling the root folder cache
// from the top-level listing the first time it is needed.
func (s *folderService) anchor(ctx context.Context, c client.Client, accountID models.ID) (models.RootFolder, bool) {
	n, err := s.roots.Count(ctx)
	if err != nil {
		s.log.Warn(ctx, "root folder cache unavailable", "error", err)
		return models.RootFolder{}, false
	}

	if n == 0 {
		nodes, err := s.fetchChildren(ctx, c, accountID, common.RootFolderID)
		if err != nil {
			s.log.Warn(ctx, "cannot populate root folder cache", "error", err)
			return models.RootFolder{}, false
		}
		folders := make([]models.RootFolder, 0, len(nodes))
		for _, node := range nodes {
			folders = append(folders, models.RootFolder{Name: node.Name, FolderID: node.ID.String(), ParentID: node.ParentID.String()})
		}
		if err := s.roots.InsertIgnore(ctx, folders); err != nil {
			s.log.Warn(ctx, "cannot store root folders", "error", err)
		}
		s.log.Info(ctx, "root folder cache populated", "folders", len(folders))
	}

	f, err := s.roots.FindByName(ctx, s.opts.AnchorName)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.log.Warn(ctx, "anchor lookup failed", "error", err)
		}
		return models.RootFolder{}, false
	}
	return f, true
}

func (s *folderService) FindPath(ctx context.Context, c client.Client, accountID, originID models.ID, originPath string, targetID models.ID, maxDepth int) models.LookupResult {
	visited := make(map[models.ID]struct{})
	return s.search(ctx, c, accountID, originID, originPath, targetID, 0, maxDepth, visited)
}

func (s *folderService) search(ctx context.Context, c client.Client, accountID, folderID models.ID, path string, targetID models.ID, depth, maxDepth int, visited map[models.ID]struct{}) models.LookupResult {
	if depth >= maxDepth {
		return models.LookupResult{Status: models.LookupDepthExceeded}
	}
	if _, seen := visited[folderID]; seen {
		s.log.Warn(ctx, "folder cycle detected", "folder_id", folderID, "path", path)
		return models.LookupResult{Status: models.LookupCycleDetected}
	}
	visited[folderID] = struct{}{}

	status := models.LookupNotFound
	for _, child := range s.ListChildren(ctx, c, accountID, folderID) {
		childPath := joinPath(path, child.Name)
		if child.ID == targetID {
			return models.Found(childPath)
		}
		res := s.search(ctx, c, accountID, child.ID, childPath, targetID, depth+1, maxDepth, visited)
		if res.Status == models.LookupFound {
			return res
		}
		if status == models.LookupNotFound {
			status = res.Status
		}
	}
	return models.LookupResult{Status: status}
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
