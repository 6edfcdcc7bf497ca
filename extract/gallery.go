package extract

import (
	"log"
	"time"

	"github.com/makar2108/telegram-bot/browser"
)

// Selector inventories for the gallery walker. Bounded lists of the
// constructs the popular lightbox/slider libraries render.
var galleryTriggerSelectors = []string{
	"[data-fancybox]", "[data-gallery]", "a.fancybox", "a.lightbox", `a[rel*="gallery"]`,
	".gallery a", "figure a", "a.pswp__item", "a.lg-item",
	`a[href*=".jpg"], a[href*=".jpeg"], a[href*=".png"], a[href*=".webp"]`,
}

var galleryImageSelectors = []string{
	".fancybox-image", ".pswp__img", ".lg-current img", ".lg-item img",
	".lightgallery img", ".modal img", ".swiper-slide-active img",
}

var galleryNextSelectors = []string{
	".fancybox-button--arrow_right", ".pswp__button--arrow--right",
	".lg-next", ".slick-next", ".swiper-button-next", `[aria-label="Next"]`, `button[title*="Next"]`,
}

// walkGallery tries to open a lightbox/slider and advance through it,
// collecting the visible image at each step. The walk is a bounded iterator:
// it stops after MaxGallerySteps clicks or as soon as no "next" control
// responds, whichever comes first.
func (e *Extractor) walkGallery(session *browser.Session) []string {
	opened := false
	for _, sel := range galleryTriggerSelectors {
		if err := session.Click(sel, time.Second); err == nil {
			opened = true
			break
		}
	}
	if !opened {
		// Last resort: the first image on the page might be the trigger.
		if err := session.Click("img", time.Second); err == nil {
			opened = true
		}
	}
	if !opened {
		return nil
	}
	session.Sleep(500 * time.Millisecond)

	var collected []string
	seen := make(map[string]struct{})
	for step := 0; step < e.cfg.MaxGallerySteps; step++ {
		var current []string
		if err := session.Evaluate(galleryCollectScript(), &current); err != nil {
			log.Printf("[Extract] gallery collect failed: %v", err)
			break
		}
		for _, src := range current {
			if _, dup := seen[src]; dup {
				continue
			}
			seen[src] = struct{}{}
			collected = append(collected, src)
		}

		clicked := false
		for _, sel := range galleryNextSelectors {
			if err := session.Click(sel, 800*time.Millisecond); err == nil {
				clicked = true
				session.Sleep(250 * time.Millisecond)
				break
			}
		}
		if !clicked {
			break
		}
	}

	if len(collected) > 0 {
		log.Printf("[Extract] gallery walk collected %d images", len(collected))
	}
	return collected
}
