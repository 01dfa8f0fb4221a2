package web

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/smysle/sakura-cinelist-go/internal/service"
	"github.com/smysle/sakura-cinelist-go/pkg/imggen"
	"github.com/smysle/sakura-cinelist-go/pkg/logger"
	"github.com/smysle/sakura-cinelist-go/pkg/utils"
)

// home 按评分排行展示收藏列表
func (s *Server) home(c *fiber.Ctx) error {
	movies, err := s.svc.ListRanked()
	if err != nil {
		return err
	}

	return c.Render("index", fiber.Map{
		"Title":  "我的影片收藏",
		"Movies": movies,
		"Flash":  s.flash.Pop(c),
	})
}

// addPage 渲染搜索表单
func (s *Server) addPage(c *fiber.Ctx) error {
	return c.Render("add", fiber.Map{
		"Title": "添加影片",
		"Flash": s.flash.Pop(c),
	})
}

// addSearch 调用 TMDB 搜索并渲染候选列表
func (s *Server) addSearch(c *fiber.Ctx) error {
	form, fieldErrs := ParseAddForm(c.FormValue("title"))
	if fieldErrs != nil {
		return c.Status(fiber.StatusBadRequest).Render("add", fiber.Map{
			"Title":  "添加影片",
			"Errors": fieldErrs,
		})
	}

	candidates, err := s.tmdb.SearchMovies(form.Title)
	if err != nil {
		return err
	}

	return c.Render("select", fiber.Map{
		"Title":      "选择影片",
		"Query":      form.Title,
		"Candidates": candidates,
	})
}

// selectCandidate 确认候选并入库，成功后跳转评分页
func (s *Server) selectCandidate(c *fiber.Ctx) error {
	tmdbID, err := strconv.Atoi(c.Query("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "无效的影片 ID")
	}

	movie, err := s.svc.AddFromCandidate(tmdbID)
	if errors.Is(err, service.ErrAlreadyCollected) {
		// 原样保留"重复跳回搜索页"的行为，用闪存消息提示用户
		s.flash.Set(c, fmt.Sprintf("《%s》已在收藏中", movie.Title))
		return c.Redirect("/add", fiber.StatusSeeOther)
	}
	if err != nil {
		return err
	}

	return c.Redirect(fmt.Sprintf("/edit?id=%d", movie.ID), fiber.StatusSeeOther)
}

// editPage 渲染评分表单
func (s *Server) editPage(c *fiber.Ctx) error {
	id, err := parseID(c.Query("id"))
	if err != nil {
		return err
	}

	movie, err := s.svc.Get(id)
	if err != nil {
		return err
	}

	return c.Render("edit", fiber.Map{
		"Title": "评分与评论",
		"Movie": movie,
	})
}

// editSubmit 校验表单并更新评分
func (s *Server) editSubmit(c *fiber.Ctx) error {
	id, err := parseID(c.Query("id"))
	if err != nil {
		return err
	}

	form, fieldErrs := ParseRateForm(c.FormValue("rating"), c.FormValue("review"))
	if fieldErrs != nil {
		movie, getErr := s.svc.Get(id)
		if getErr != nil {
			return getErr
		}
		return c.Status(fiber.StatusBadRequest).Render("edit", fiber.Map{
			"Title":  "评分与评论",
			"Movie":  movie,
			"Errors": fieldErrs,
		})
	}

	if _, err := s.svc.Rate(id, form.Rating, form.Review); err != nil {
		return err
	}

	return c.Redirect("/", fiber.StatusSeeOther)
}

// deleteMovie 删除影片后回到列表
func (s *Server) deleteMovie(c *fiber.Ctx) error {
	id, err := parseID(c.Query("id"))
	if err != nil {
		return err
	}

	if err := s.svc.Remove(id); err != nil {
		return err
	}

	return c.Redirect("/", fiber.StatusSeeOther)
}

// rankCard 生成收藏排行卡片 PNG
func (s *Server) rankCard(c *fiber.Ctx) error {
	movies, err := s.svc.ListRanked()
	if err != nil {
		return err
	}

	items := make([]imggen.MovieRow, 0, 10)
	for _, m := range movies {
		if len(items) >= 10 {
			break
		}
		items = append(items, imggen.MovieRow{
			Rank:   m.Ranking,
			Title:  m.Title,
			Year:   m.Year,
			Rating: m.RatingDisplay(),
		})
	}

	data, err := imggen.GenerateCollectionCard(imggen.CardConfig{
		Title:       "我的影片收藏",
		Subtitle:    "按评分排行 TOP 10",
		Logo:        s.cfg.Card.Logo,
		FontPath:    s.cfg.Card.FontPath,
		Items:       items,
		GeneratedAt: utils.TimeNowCST(),
	})
	if err != nil {
		logger.Error().Err(err).Msg("生成排行卡片失败")
		return err
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(data)
}

// parseID 解析记录 ID 参数
func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "无效的记录 ID")
	}
	return uint(id), nil
}
