package compiler

// NavigationScript intercepts clicks on local .html and .php links and
// posts {type: "navigate", page: href} to the parent frame instead of
// navigating. Absolute and protocol-relative links keep their default
// behaviour.
const NavigationScript = `/* navigation */
document.addEventListener('click', function (event) {
  var el = event.target;
  while (el && el.tagName !== 'A') {
    el = el.parentElement;
  }
  if (!el) return;
  var href = el.getAttribute('href');
  if (!href || href.indexOf('http') === 0 || href.indexOf('//') === 0) return;
  if (!/\.(html|php)$/i.test(href)) return;
  event.preventDefault();
  window.parent.postMessage({ type: 'navigate', page: href }, '*');
});
`
